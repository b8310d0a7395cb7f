package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/samiti-foundation/server/internal/domain/events"
)

type Service struct {
	repo   Repository
	events events.Repository
	logger zerolog.Logger
}

func NewService(repo Repository, eventsRepo events.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventsRepo,
		logger: logger.With().Str("component", "registrations").Logger(),
	}
}

type SubmitParams struct {
	EventID       int64
	Email         string
	ScreenshotURL string
	Responses     []ResponseInput
}

// Submit validates a public registration against the event's form and
// persists it with its responses as one unit.
//
// The duplicate check is a read-before-write: two concurrent submissions
// with the same email can both pass it. The pair carries no storage-level
// uniqueness constraint, so the winner is not defined; admins resolve the
// rare duplicate by rejecting one.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*Registration, error) {
	email := NormalizeEmail(params.Email)
	if email == "" || !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	event, err := s.events.GetByID(ctx, params.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, ErrEventInactive
	}

	existing, err := s.repo.FindByEventAndEmail(ctx, event.ID, email)
	if err == nil {
		return nil, DuplicateError{RegistrationID: existing.ID, Status: existing.Status}
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	fields := make([]formField, 0, len(event.FormFields))
	known := make(map[int64]bool, len(event.FormFields))
	for _, f := range event.FormFields {
		fields = append(fields, formField{ID: f.ID, Label: f.Label, Required: f.Required, Order: f.Order})
		known[f.ID] = true
	}
	if missing := missingRequiredLabels(fields, params.Responses); len(missing) > 0 {
		return nil, MissingFieldsError{Labels: missing}
	}

	// Responses to fields of other events (or stale field ids) are dropped
	// rather than rejected.
	kept := make([]ResponseInput, 0, len(params.Responses))
	for _, resp := range params.Responses {
		if known[resp.FieldID] && strings.TrimSpace(resp.Value) != "" {
			kept = append(kept, ResponseInput{FieldID: resp.FieldID, Value: strings.TrimSpace(resp.Value)})
		}
	}

	created, err := s.repo.Create(ctx, CreateParams{
		EventID:       event.ID,
		Email:         email,
		ScreenshotURL: params.ScreenshotURL,
		Responses:     kept,
	})
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.logger.Info().
		Int64("event_id", event.ID).
		Int64("registration_id", created.ID).
		Msg("registration submitted")
	return created, nil
}

// CheckEmail reports whether the address already holds a registration for
// the event; nil means unclaimed.
func (s *Service) CheckEmail(ctx context.Context, eventID int64, email string) (*Registration, *events.Event, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || !validEmail(normalized) {
		return nil, nil, ErrInvalidEmail
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.FindByEventAndEmail(ctx, eventID, normalized)
	if errors.Is(err, ErrNotFound) {
		return nil, event, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("check registration: %w", err)
	}
	return existing, event, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

// SetStatus overwrites the verification state. Setting the current status
// again is an idempotent success; anything outside the enum fails before
// the registration is even looked up.
func (s *Service) SetStatus(ctx context.Context, id int64, value string) error {
	status, err := ParseStatus(value)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
