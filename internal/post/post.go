package post

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a post is not found.
	ErrNotFound = errors.New("post not found")
	// ErrForbidden is returned when the caller is not the post's author.
	ErrForbidden = errors.New("not the author of this post")
	// ErrInvalidInput is returned when required fields are missing.
	ErrInvalidInput = errors.New("title and body are required")
)

// BookSnapshot is the subset of book-catalog fields copied onto a post
// at write time. It is a snapshot, not a live reference: later changes
// to the catalog entry do not propagate.
type BookSnapshot struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
}

// Post is a board post authored by a signed-in user.
type Post struct {
	ID        string        `json:"id"`
	AuthorID  string        `json:"author_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Category  Category      `json:"category"`
	Book      *BookSnapshot `json:"book,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// Summary is a post enriched with the author's display name for
// rendering. The name is resolved at read time, not stored.
type Summary struct {
	Post
	AuthorName string `json:"author_name"`
}
