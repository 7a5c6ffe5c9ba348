package post

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookclub/internal/user"
)

// fakeRepo is an in-memory Repository with the same keyset window
// semantics as the Postgres implementation.
type fakeRepo struct {
	posts map[string]Post
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]Post)}
}

func (r *fakeRepo) sorted(category Category) []Post {
	var out []Post
	for _, p := range r.posts {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	// Display order: created_at DESC, id DESC.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func less(a Post, c CursorData) bool {
	if !a.CreatedAt.Equal(c.CreatedAt) {
		return a.CreatedAt.Before(c.CreatedAt)
	}
	return a.ID < c.ID
}

func greater(a Post, c CursorData) bool {
	if !a.CreatedAt.Equal(c.CreatedAt) {
		return a.CreatedAt.After(c.CreatedAt)
	}
	return a.ID > c.ID
}

func (r *fakeRepo) Create(ctx context.Context, p *Post) error {
	if r.err != nil {
		return r.err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts[p.ID] = *p
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (Post, error) {
	if r.err != nil {
		return Post{}, r.err
	}
	p, ok := r.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) Update(ctx context.Context, p *Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return ErrNotFound
	}
	now := time.Now()
	p.UpdatedAt = &now
	r.posts[p.ID] = *p
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakeRepo) Latest(ctx context.Context, category Category) (Post, error) {
	if r.err != nil {
		return Post{}, r.err
	}
	all := r.sorted(category)
	if len(all) == 0 {
		return Post{}, ErrNotFound
	}
	return all[0], nil
}

func (r *fakeRepo) ListFirst(ctx context.Context, category Category, limit int) ([]Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	all := r.sorted(category)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeRepo) ListAfter(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []Post
	for _, p := range r.sorted(category) {
		if less(p, cursor) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBefore(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	// Ascending, nearest to the cursor first.
	all := r.sorted(category)
	var out []Post
	for i := len(all) - 1; i >= 0; i-- {
		if greater(all[i], cursor) {
			out = append(out, all[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) SearchTitlePrefix(ctx context.Context, term string, limit int) ([]Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []Post
	for _, p := range r.sorted("") {
		if len(p.Title) >= len(term) && p.Title[:len(term)] == term {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// fakeUsers is an in-memory user.Repository.
type fakeUsers struct {
	profiles map[string]user.Profile
}

func newFakeUsers(profiles ...user.Profile) *fakeUsers {
	m := make(map[string]user.Profile)
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &fakeUsers{profiles: m}
}

func (r *fakeUsers) Create(ctx context.Context, p *user.Profile) error {
	r.profiles[p.ID] = *p
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id string) (user.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (user.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return user.Profile{}, user.ErrNotFound
}

func (r *fakeUsers) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	p, ok := r.profiles[id]
	if !ok {
		return user.ErrNotFound
	}
	p.DisplayName = displayName
	r.profiles[id] = p
	return nil
}

func (r *fakeUsers) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	p, ok := r.profiles[id]
	if !ok {
		return user.ErrNotFound
	}
	p.PhotoURL = &photoURL
	r.profiles[id] = p
	return nil
}

type fakePurger struct {
	purged  map[string]int
	pending map[string]int
	err     error
}

func newFakePurger() *fakePurger {
	return &fakePurger{purged: make(map[string]int), pending: make(map[string]int)}
}

func (f *fakePurger) DeleteByPost(ctx context.Context, postID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := f.pending[postID]
	delete(f.pending, postID)
	f.purged[postID] = n
	return n, nil
}

func newTestService(repo *fakeRepo, users *fakeUsers, purger *fakePurger, pageSize int) *Service {
	return NewService(repo, users, purger, pageSize, zerolog.Nop())
}

func seedPosts(t *testing.T, repo *fakeRepo, category Category, n int) []Post {
	t.Helper()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var posts []Post
	for i := 1; i <= n; i++ {
		p := Post{
			ID:        fmt.Sprintf("post-%03d", i),
			AuthorID:  "author-1",
			Title:     fmt.Sprintf("글 %d", i),
			Body:      "본문",
			Category:  category,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &p))
		posts = append(posts, p)
	}
	// Return in display order (newest first).
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
	return posts
}

func TestListPage_TwoPageScenario(t *testing.T) {
	// 14 posts, page size 12: page one is 1-12, page two is 13-14.
	repo := newFakeRepo()
	users := newFakeUsers(user.Profile{ID: "author-1", DisplayName: "민수"})
	svc := newTestService(repo, users, newFakePurger(), 12)
	ordered := seedPosts(t, repo, CategoryFree, 14)
	ctx := context.Background()

	first, err := svc.ListPage(ctx, CategoryFree, "", DirectionNext)
	require.NoError(t, err)
	require.Len(t, first.Posts, 12)
	assert.True(t, first.HasMore)
	assert.False(t, first.HasPrevious)
	assert.True(t, first.IsFirstPage)
	for i, s := range first.Posts {
		assert.Equal(t, ordered[i].ID, s.ID)
		assert.Equal(t, "민수", s.AuthorName)
	}

	second, err := svc.ListPage(ctx, CategoryFree, first.NextCursor, DirectionNext)
	require.NoError(t, err)
	require.Len(t, second.Posts, 2)
	assert.False(t, second.HasMore)
	assert.True(t, second.HasPrevious)
	assert.False(t, second.IsFirstPage)
	assert.Equal(t, ordered[12].ID, second.Posts[0].ID)
	assert.Equal(t, ordered[13].ID, second.Posts[1].ID)
}

func TestListPage_ForwardVisitsEachPostOnce(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers()
	svc := newTestService(repo, users, newFakePurger(), 12)
	ordered := seedPosts(t, repo, CategoryDiscussion, 30)
	ctx := context.Background()

	var seen []string
	cursor := ""
	for {
		page, err := svc.ListPage(ctx, CategoryDiscussion, cursor, DirectionNext)
		require.NoError(t, err)
		for _, s := range page.Posts {
			seen = append(seen, s.ID)
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	require.Len(t, seen, 30)
	for i, p := range ordered {
		assert.Equal(t, p.ID, seen[i])
	}
}

func TestListPage_BackwardReturnsToSamePage(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers()
	svc := newTestService(repo, users, newFakePurger(), 5)
	seedPosts(t, repo, CategoryFree, 17)
	ctx := context.Background()

	pageOne, err := svc.ListPage(ctx, CategoryFree, "", DirectionNext)
	require.NoError(t, err)
	pageTwo, err := svc.ListPage(ctx, CategoryFree, pageOne.NextCursor, DirectionNext)
	require.NoError(t, err)

	// Move back from page two's first post: must reproduce page one
	// exactly, same ids in the same order.
	back, err := svc.ListPage(ctx, CategoryFree, pageTwo.PrevCursor, DirectionPrev)
	require.NoError(t, err)
	require.Len(t, back.Posts, len(pageOne.Posts))
	for i := range pageOne.Posts {
		assert.Equal(t, pageOne.Posts[i].ID, back.Posts[i].ID)
	}
	assert.True(t, back.IsFirstPage)
	assert.False(t, back.HasPrevious)
}

func TestListPage_IsFirstPageTracksAnchor(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers()
	svc := newTestService(repo, users, newFakePurger(), 4)
	ordered := seedPosts(t, repo, CategoryFree, 10)
	ctx := context.Background()

	first, err := svc.ListPage(ctx, CategoryFree, "", DirectionNext)
	require.NoError(t, err)
	assert.Equal(t, ordered[0].ID, first.Posts[0].ID)
	assert.True(t, first.IsFirstPage)

	second, err := svc.ListPage(ctx, CategoryFree, first.NextCursor, DirectionNext)
	require.NoError(t, err)
	assert.NotEqual(t, ordered[0].ID, second.Posts[0].ID)
	assert.False(t, second.IsFirstPage)
	assert.True(t, second.HasPrevious)
}

func TestListPage_EmptyResultResetsFlags(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers()
	svc := newTestService(repo, users, newFakePurger(), 12)
	ctx := context.Background()

	t.Run("no posts at all", func(t *testing.T) {
		page, err := svc.ListPage(ctx, "", "", DirectionNext)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.False(t, page.HasMore)
		assert.False(t, page.HasPrevious)
		assert.True(t, page.IsFirstPage)
	})

	t.Run("cursor past the end", func(t *testing.T) {
		ordered := seedPosts(t, repo, CategoryFree, 3)
		page, err := svc.ListPage(ctx, CategoryFree, CursorFor(ordered[2]), DirectionNext)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.False(t, page.HasMore)
		assert.False(t, page.HasPrevious)
		assert.True(t, page.IsFirstPage)
	})
}

func TestListPage_StoreFailureIsDistinguishable(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	svc := newTestService(repo, newFakeUsers(), newFakePurger(), 12)

	page, err := svc.ListPage(context.Background(), "", "", DirectionNext)

	// The empty shape comes back, but the failure is not silent.
	require.Error(t, err)
	assert.Empty(t, page.Posts)
	assert.True(t, page.IsFirstPage)
}

func TestListPage_InvalidCategory(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeUsers(), newFakePurger(), 12)

	_, err := svc.ListPage(context.Background(), Category("없는 게시판"), "", DirectionNext)

	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestEnrichmentFallbacks(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers(
		user.Profile{ID: "with-name", Email: "a@example.com", DisplayName: "지은"},
		user.Profile{ID: "email-only", Email: "b@example.com"},
	)
	svc := newTestService(repo, users, newFakePurger(), 12)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, authorID := range []string{"with-name", "email-only", "missing"} {
		p := Post{
			ID:        fmt.Sprintf("p%d", i),
			AuthorID:  authorID,
			Title:     "t",
			Body:      "b",
			Category:  CategoryFree,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, &p))
	}

	page, err := svc.ListPage(ctx, CategoryFree, "", DirectionNext)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)

	names := map[string]string{}
	for _, s := range page.Posts {
		names[s.AuthorID] = s.AuthorName
	}
	assert.Equal(t, "지은", names["with-name"])
	assert.Equal(t, "b@example.com", names["email-only"])
	assert.Equal(t, user.AnonymousName, names["missing"])
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeUsers(), newFakePurger(), 12)
	ctx := context.Background()

	t.Run("with nil book persists nil", func(t *testing.T) {
		created, err := svc.Create(ctx, "author-1", CreateInput{
			Title:    "책 없는 글",
			Body:     "본문",
			Category: CategoryFree,
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Book)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("with book snapshot", func(t *testing.T) {
		created, err := svc.Create(ctx, "author-1", CreateInput{
			Title:    "철학 이야기",
			Body:     "본문",
			Category: CategoryRecommend,
			Book: &BookSnapshot{
				ID:      "vol-1",
				Title:   "철학의 위안",
				Authors: []string{"알랭 드 보통"},
			},
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Book)
		assert.Equal(t, "vol-1", got.Book.ID)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		_, err := svc.Create(ctx, "author-1", CreateInput{Title: "  ", Body: "b", Category: CategoryFree})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := svc.Create(ctx, "author-1", CreateInput{Title: "t", Body: "b", Category: "기타"})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestUpdate_AuthorOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeUsers(), newFakePurger(), 12)
	ctx := context.Background()

	created, err := svc.Create(ctx, "author-1", CreateInput{Title: "t", Body: "b", Category: CategoryFree})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "someone-else", created.ID, CreateInput{Title: "x", Body: "y", Category: CategoryFree})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, "author-1", created.ID, CreateInput{Title: "새 제목", Body: "y", Category: CategoryFree})
	require.NoError(t, err)
	assert.Equal(t, "새 제목", updated.Title)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestDelete_CascadesToComments(t *testing.T) {
	repo := newFakeRepo()
	purger := newFakePurger()
	svc := newTestService(repo, newFakeUsers(), purger, 12)
	ctx := context.Background()

	created, err := svc.Create(ctx, "author-1", CreateInput{Title: "t", Body: "b", Category: CategoryFree})
	require.NoError(t, err)
	purger.pending[created.ID] = 7

	t.Run("forbidden for non-author", func(t *testing.T) {
		err := svc.Delete(ctx, "someone-else", created.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("removes post and all comments", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "author-1", created.ID))

		_, err := repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 7, purger.purged[created.ID])
	})

	t.Run("missing post", func(t *testing.T) {
		err := svc.Delete(ctx, "author-1", "no-such-post")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGet_EnrichesAuthor(t *testing.T) {
	repo := newFakeRepo()
	users := newFakeUsers(user.Profile{ID: "author-1", DisplayName: "민수"})
	svc := newTestService(repo, users, newFakePurger(), 12)
	ctx := context.Background()

	created, err := svc.Create(ctx, "author-1", CreateInput{Title: "t", Body: "b", Category: CategoryFree})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "민수", got.AuthorName)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
