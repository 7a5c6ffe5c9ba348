package comment

import "context"

// Repository defines the contract for comment storage.
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (Comment, error)
	// ListByPost returns a post's comments in ascending creation order.
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	// IDsByPost returns just the comment ids for a post.
	IDsByPost(ctx context.Context, postID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
