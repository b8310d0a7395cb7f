package site

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
		logger: logger.With().Str("component", "site").Logger(),
	}
}

func (s *Service) GetIntro(ctx context.Context) (*Intro, error) {
	return s.repo.GetIntro(ctx)
}

func (s *Service) SetIntro(ctx context.Context, text string) (*Intro, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	return s.repo.UpsertIntro(ctx, text)
}

func (s *Service) ListImages(ctx context.Context) ([]Image, error) {
	return s.repo.ListImages(ctx)
}

// AddImage records an already uploaded image. The caller uploads first so
// a failed write never leaves a dangling DB row.
func (s *Service) AddImage(ctx context.Context, url, caption string) (*Image, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrURLRequired
	}
	img, err := s.repo.CreateImage(ctx, url, strings.TrimSpace(caption))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("image_id", img.ID).Msg("gallery image added")
	return img, nil
}

// RemoveImage deletes the row and returns the removed record so the
// caller can clean up local files.
func (s *Service) RemoveImage(ctx context.Context, id int64) (*Image, error) {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) ListTeamMembers(ctx context.Context) ([]TeamMember, error) {
	return s.repo.ListTeamMembers(ctx)
}

func (s *Service) AddTeamMember(ctx context.Context, params TeamMemberParams) (*TeamMember, error) {
	if err := validateMember(&params); err != nil {
		return nil, err
	}
	return s.repo.CreateTeamMember(ctx, params)
}

func (s *Service) UpdateTeamMember(ctx context.Context, id int64, params TeamMemberParams) (*TeamMember, error) {
	if err := validateMember(&params); err != nil {
		return nil, err
	}
	return s.repo.UpdateTeamMember(ctx, id, params)
}

// RemoveTeamMember deletes the row and returns the removed record so the
// caller can clean up a locally stored photo.
func (s *Service) RemoveTeamMember(ctx context.Context, id int64) (*TeamMember, error) {
	member, err := s.repo.GetTeamMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteTeamMember(ctx, id); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) GetContactInfo(ctx context.Context) (*ContactInfo, error) {
	return s.repo.GetContactInfo(ctx)
}

func (s *Service) SetContactInfo(ctx context.Context, params ContactInfoParams) (*ContactInfo, error) {
	return s.repo.UpsertContactInfo(ctx, params)
}

func validateMember(params *TeamMemberParams) error {
	params.Name = strings.TrimSpace(params.Name)
	params.Role = strings.TrimSpace(params.Role)
	if params.Name == "" || params.Role == "" {
		return ErrNameRoleRequired
	}
	return nil
}
