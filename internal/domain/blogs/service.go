package blogs

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "blogs").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Blog, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Blog, error) {
	return s.repo.GetByID(ctx, id)
}

// Create publishes a post. Author falls back to a fixed byline when the
// caller supplies none.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Blog, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Content = strings.TrimSpace(params.Content)
	if params.Title == "" || params.Content == "" {
		return nil, ErrContentRequired
	}
	if strings.TrimSpace(params.Author) == "" {
		params.Author = defaultAuthor
	}

	blog, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("blog_id", blog.ID).Str("title", blog.Title).Msg("blog post created")
	return blog, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Blog, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Content = strings.TrimSpace(params.Content)
	if params.Title == "" || params.Content == "" {
		return nil, ErrContentRequired
	}
	return s.repo.Update(ctx, id, params)
}

// Remove deletes the post and returns the removed record so the caller
// can clean up a locally stored cover image.
func (s *Service) Remove(ctx context.Context, id int64) (*Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return blog, nil
}
