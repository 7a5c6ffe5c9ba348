package post

import "context"

// Repository defines the contract for post storage. List operations are
// keyset windows over (created_at DESC, id DESC), optionally filtered by
// category (empty category means no filter).
type Repository interface {
	Create(ctx context.Context, p *Post) error
	Get(ctx context.Context, id string) (Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error

	// Latest returns the single most-recent matching post (the anchor
	// probe). ErrNotFound when no post matches.
	Latest(ctx context.Context, category Category) (Post, error)
	// ListFirst returns the first limit posts in display order.
	ListFirst(ctx context.Context, category Category, limit int) ([]Post, error)
	// ListAfter returns up to limit posts strictly after the cursor in
	// display order (older posts).
	ListAfter(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error)
	// ListBefore returns up to limit posts strictly before the cursor,
	// in reverse display order (ascending). The caller reverses them to
	// restore display order, keeping last-to-first-N semantics.
	ListBefore(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error)

	// SearchTitlePrefix returns posts whose title starts with term, the
	// same prefix-range match the document store ran.
	SearchTitlePrefix(ctx context.Context, term string, limit int) ([]Post, error)
}
