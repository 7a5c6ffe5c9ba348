package search

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bookclub/internal/platform/googlebooks"
	"bookclub/internal/post"
)

// PostSearcher is the prefix-range title match over stored posts.
type PostSearcher interface {
	SearchTitlePrefix(ctx context.Context, term string, limit int) ([]post.Post, error)
}

// BookSearcher is the external catalog keyword search.
type BookSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]googlebooks.Volume, error)
}

type Service struct {
	posts PostSearcher
	books BookSearcher
	limit int
	log   zerolog.Logger
}

func NewService(posts PostSearcher, books BookSearcher, limit int, log zerolog.Logger) *Service {
	return &Service{posts: posts, books: books, limit: limit, log: log}
}

// Search runs both sources concurrently and concatenates their results,
// posts first, each source's own order preserved. No ranking or
// deduplication. A single failing source degrades to its empty half;
// both failing is an error.
func (s *Service) Search(ctx context.Context, term string) ([]Result, error) {
	var (
		matchedPosts []post.Post
		postErr      error
		volumes      []googlebooks.Volume
		bookErr      error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matchedPosts, postErr = s.posts.SearchTitlePrefix(gctx, term, s.limit)
		return nil
	})
	g.Go(func() error {
		volumes, bookErr = s.books.Search(gctx, term, s.limit)
		return nil
	})
	_ = g.Wait()

	if postErr != nil && bookErr != nil {
		s.log.Error().AnErr("post_err", postErr).AnErr("book_err", bookErr).
			Str("term", term).Msg("both search sources failed")
		return nil, postErr
	}
	if postErr != nil {
		s.log.Warn().Err(postErr).Str("term", term).Msg("post search failed, returning books only")
	}
	if bookErr != nil {
		s.log.Warn().Err(bookErr).Str("term", term).Msg("book search failed, returning posts only")
	}

	results := make([]Result, 0, len(matchedPosts)+len(volumes))
	for _, p := range matchedPosts {
		results = append(results, PostResult{Type: KindPost, Post: p})
	}
	for _, v := range volumes {
		results = append(results, BookResult{Type: KindBook, Book: v})
	}
	return results, nil
}
