package comment

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bookclub/internal/user"
)

type Service struct {
	repo  Repository
	users user.Repository
	log   zerolog.Logger
}

func NewService(repo Repository, users user.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, users: users, log: log}
}

// Create stores a comment on a post for the authenticated author.
func (s *Service) Create(ctx context.Context, postID, authorID, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrEmptyBody
	}

	c := Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// ListByPost returns a post's comments in creation order, each enriched
// with the author display name. Lookups run one per comment, all in
// flight at once.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]Summary, error) {
	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range comments {
		g.Go(func() error {
			summaries[i] = Summary{Comment: c, AuthorName: s.authorName(gctx, c.AuthorID)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete removes a single comment. Only the author may delete it.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != callerID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// DeleteByPost removes every comment on a post, issuing the deletions
// concurrently and waiting for all of them. Returns how many were
// deleted, which may be partial on error.
func (s *Service) DeleteByPost(ctx context.Context, postID string) (int, error) {
	ids, err := s.repo.IDsByPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.repo.Delete(gctx, id); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			deleted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(deleted.Load()), err
	}
	return int(deleted.Load()), nil
}

func (s *Service) authorName(ctx context.Context, authorID string) string {
	profile, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.log.Warn().Err(err).Str("author_id", authorID).Msg("author lookup failed")
		}
		return user.AnonymousName
	}
	return profile.Name()
}
