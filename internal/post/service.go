package post

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bookclub/internal/user"
)

// CommentPurger removes every comment attached to a post. Implemented
// by the comment service so post deletion can cascade without the two
// packages importing each other.
type CommentPurger interface {
	DeleteByPost(ctx context.Context, postID string) (int, error)
}

type Service struct {
	repo     Repository
	users    user.Repository
	comments CommentPurger
	pageSize int
	log      zerolog.Logger
}

func NewService(repo Repository, users user.Repository, comments CommentPurger, pageSize int, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		comments: comments,
		pageSize: pageSize,
		log:      log,
	}
}

// CreateInput carries the author-supplied fields of a post.
type CreateInput struct {
	Title    string
	Body     string
	Category Category
	Book     *BookSnapshot
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return ErrInvalidInput
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Create stores a new post for the authenticated author. The creation
// timestamp is assigned by the store.
func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (Post, error) {
	if err := in.validate(); err != nil {
		return Post{}, err
	}

	p := Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Title:    strings.TrimSpace(in.Title),
		Body:     in.Body,
		Category: in.Category,
		Book:     in.Book,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Get returns a single post enriched with the author display name.
func (s *Service) Get(ctx context.Context, id string) (Summary, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Post: p, AuthorName: s.authorName(ctx, p.AuthorID)}, nil
}

// Update mutates the author-supplied fields and stamps updated_at. Only
// the author may update a post.
func (s *Service) Update(ctx context.Context, callerID, id string, in CreateInput) (Post, error) {
	if err := in.validate(); err != nil {
		return Post{}, err
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.AuthorID != callerID {
		return Post{}, ErrForbidden
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Body = in.Body
	p.Category = in.Category
	p.Book = in.Book
	if err := s.repo.Update(ctx, &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete removes the post, then purges its comments. The comment purge
// runs after the post deletion has committed; a partial purge is
// reported but not rolled back.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != callerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	deleted, err := s.comments.DeleteByPost(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("post_id", id).Int("comments_deleted", deleted).
			Msg("post deleted but comment purge incomplete")
		return err
	}
	return nil
}

// ListPage returns one page of the feed. The anchor probe (the single
// most-recent matching post) decides the first-page flags. Unlike the
// read paths elsewhere, a store failure here is returned, not collapsed
// into an empty page; the HTTP layer decides how to degrade.
func (s *Service) ListPage(ctx context.Context, category Category, cursor string, direction Direction) (Page, error) {
	if category != "" && !category.Valid() {
		return emptyPage(), ErrInvalidCategory
	}

	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return emptyPage(), err
	}

	anchor, err := s.repo.Latest(ctx, category)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return emptyPage(), nil
		}
		return emptyPage(), err
	}

	var posts []Post
	switch {
	case cursorData.ID == "":
		posts, err = s.repo.ListFirst(ctx, category, s.pageSize)
	case direction == DirectionPrev:
		posts, err = s.repo.ListBefore(ctx, category, cursorData, s.pageSize)
		reverse(posts)
	default:
		posts, err = s.repo.ListAfter(ctx, category, cursorData, s.pageSize)
	}
	if err != nil {
		return emptyPage(), err
	}
	if len(posts) == 0 {
		return emptyPage(), nil
	}

	summaries, err := s.enrich(ctx, posts)
	if err != nil {
		return emptyPage(), err
	}

	return Page{
		Posts:       summaries,
		NextCursor:  CursorFor(posts[len(posts)-1]),
		PrevCursor:  CursorFor(posts[0]),
		HasMore:     len(posts) == s.pageSize,
		HasPrevious: posts[0].ID != anchor.ID,
		IsFirstPage: posts[0].ID == anchor.ID,
	}, nil
}

// enrich resolves author display names, one lookup per post, all in
// flight at once. A missing profile falls back to the anonymous name.
func (s *Service) enrich(ctx context.Context, posts []Post) ([]Summary, error) {
	summaries := make([]Summary, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range posts {
		g.Go(func() error {
			summaries[i] = Summary{Post: p, AuthorName: s.authorName(gctx, p.AuthorID)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
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

func reverse(posts []Post) {
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
}
