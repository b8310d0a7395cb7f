package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiti-foundation/server/internal/domain/blogs"
)

var _ blogs.Repository = (*BlogRepository)(nil)

type BlogRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *BlogRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const blogColumns = `
id, title, content, author, coalesce(cover_image_url, ''), created_at`

func scanBlog(row pgx.Row) (*blogs.Blog, error) {
	var b blogs.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CoverImageURL, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BlogRepository) List(ctx context.Context) ([]blogs.Blog, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+blogColumns+`
  FROM blogs
 ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []blogs.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *blog)
	}
	return items, rows.Err()
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*blogs.Blog, error) {
	blog, err := scanBlog(r.queryer().QueryRow(ctx, `
SELECT `+blogColumns+`
  FROM blogs
 WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blogs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return blog, nil
}

func (r *BlogRepository) Create(ctx context.Context, params blogs.CreateParams) (*blogs.Blog, error) {
	blog, err := scanBlog(r.queryer().QueryRow(ctx, `
INSERT INTO blogs (title, content, author, cover_image_url)
VALUES ($1, $2, $3, $4)
RETURNING `+blogColumns, params.Title, params.Content, params.Author, textOrNil(params.CoverImageURL)))
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return blog, nil
}

func (r *BlogRepository) Update(ctx context.Context, id int64, params blogs.UpdateParams) (*blogs.Blog, error) {
	blog, err := scanBlog(r.queryer().QueryRow(ctx, `
UPDATE blogs
   SET title = $2,
       content = $3,
       author = CASE WHEN $4 = '' THEN author ELSE $4 END,
       cover_image_url = CASE WHEN $5::text IS NULL THEN cover_image_url ELSE nullif($5, '') END
 WHERE id = $1
RETURNING `+blogColumns, id, params.Title, params.Content, params.Author, params.CoverImageURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blogs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return blog, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blogs.ErrNotFound
	}
	return nil
}
