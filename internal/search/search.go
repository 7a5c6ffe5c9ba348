// Package search merges post title matches with book-catalog results.
package search

import (
	"bookclub/internal/platform/googlebooks"
	"bookclub/internal/post"
)

// Kind tags which source a result came from.
type Kind string

const (
	KindPost Kind = "post"
	KindBook Kind = "book"
)

// Result is the tagged union of the two result variants. Exhaustive
// switches on Kind() replace the field probing the web client did.
type Result interface {
	Kind() Kind
}

// PostResult is a feed post whose title matched the query prefix.
type PostResult struct {
	Type Kind      `json:"type"`
	Post post.Post `json:"post"`
}

func (PostResult) Kind() Kind { return KindPost }

// BookResult is an external catalog volume matching the query.
type BookResult struct {
	Type Kind               `json:"type"`
	Book googlebooks.Volume `json:"book"`
}

func (BookResult) Kind() Kind { return KindBook }
