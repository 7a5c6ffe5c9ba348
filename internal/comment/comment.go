package comment

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a comment is not found.
	ErrNotFound = errors.New("comment not found")
	// ErrForbidden is returned when the caller is not the comment's author.
	ErrForbidden = errors.New("not the author of this comment")
	// ErrEmptyBody is returned when the comment body is blank.
	ErrEmptyBody = errors.New("comment body is required")
)

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a comment enriched with the author's display name.
type Summary struct {
	Comment
	AuthorName string `json:"author_name"`
}
