package blogs

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("blog post not found")
	ErrContentRequired = errors.New("title and content are required")
)

const defaultAuthor = "Admin"

type Blog struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateParams struct {
	Title         string
	Content       string
	Author        string
	CoverImageURL string
}

type UpdateParams struct {
	Title         string
	Content       string
	Author        string
	CoverImageURL *string
}

type Repository interface {
	// List returns newest-first.
	List(ctx context.Context) ([]Blog, error)
	GetByID(ctx context.Context, id int64) (*Blog, error)
	Create(ctx context.Context, params CreateParams) (*Blog, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Blog, error)
	Delete(ctx context.Context, id int64) error
}
