package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = "id, author_id, title, body, category, book, created_at, updated_at"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	var book []byte
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Category, &book, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Post{}, err
	}
	if len(book) > 0 {
		if err := json.Unmarshal(book, &p.Book); err != nil {
			return Post{}, err
		}
	}
	return p, nil
}

func (r *PostgresRepo) collect(ctx context.Context, query string, args ...any) ([]Post, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, p *Post) error {
	book, err := marshalBook(p.Book)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO posts (id, author_id, title, body, category, book, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		p.ID, p.AuthorID, p.Title, p.Body, p.Category, book,
	).Scan(&p.CreatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPost(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Update(ctx context.Context, p *Post) error {
	book, err := marshalBook(p.Book)
	if err != nil {
		return err
	}
	const query = `
		UPDATE posts
		SET title = $2, body = $3, category = $4, book = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, p.ID, p.Title, p.Body, p.Category, book).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Latest(ctx context.Context, category Category) (Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, postColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPost(r.db.QueryRow(timeoutCtx, query, string(category)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

func (r *PostgresRepo) ListFirst(ctx context.Context, category Category, limit int) ([]Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, postColumns)
	return r.collect(ctx, query, string(category), limit)
}

func (r *PostgresRepo) ListAfter(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE ($1 = '' OR category = $1)
		AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`, postColumns)
	return r.collect(ctx, query, string(category), cursor.CreatedAt, cursor.ID, limit)
}

func (r *PostgresRepo) ListBefore(ctx context.Context, category Category, cursor CursorData, limit int) ([]Post, error) {
	// Ascending fetch of the limit rows nearest the cursor; the caller
	// reverses them back into display order (limit-to-last semantics).
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE ($1 = '' OR category = $1)
		AND (created_at, id) > ($2, $3)
		ORDER BY created_at ASC, id ASC
		LIMIT $4`, postColumns)
	return r.collect(ctx, query, string(category), cursor.CreatedAt, cursor.ID, limit)
}

func (r *PostgresRepo) SearchTitlePrefix(ctx context.Context, term string, limit int) ([]Post, error) {
	// Same prefix-range match the document store ran: title >= term and
	// title <= term + U+F8FF (chr(63743)).
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE title >= $1 AND title <= $1 || chr(63743)
		ORDER BY title ASC
		LIMIT $2`, postColumns)
	return r.collect(ctx, query, term, limit)
}

func marshalBook(b *BookSnapshot) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}
