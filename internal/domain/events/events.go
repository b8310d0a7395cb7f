package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID            int64
	Name          string
	Date          time.Time
	Description   string
	IsActive      bool
	CoverImageURL string
	QRCodeURL     string
	Slug          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FormFields    []FormField
}

// FormField is one labeled input on an event's registration form. Order is
// used purely for sorting; ties are broken by id (stable original order).
type FormField struct {
	ID        int64
	EventID   int64
	Label     string
	FieldType string
	Required  bool
	Order     int
}

type FormFieldInput struct {
	Label     string
	FieldType string
	Required  bool
	Order     int
}

type CreateParams struct {
	Name          string
	Date          time.Time
	Description   string
	IsActive      bool
	CoverImageURL string
	QRCodeURL     string
	Slug          *string
	Fields        []FormFieldInput
}

type UpdateParams struct {
	Name          string
	Date          time.Time
	Description   string
	IsActive      bool
	CoverImageURL *string
	QRCodeURL     *string
	Fields        []FormFieldInput
}

type Repository interface {
	// List returns all events ordered by date descending. Form fields are
	// loaded (ordered) only when includeFields is set.
	List(ctx context.Context, includeFields bool) ([]Event, error)
	// GetByID returns the event with its form fields in ascending order.
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Create inserts the event and its form fields as one transaction.
	Create(ctx context.Context, params CreateParams) (*Event, error)
	// Update rewrites the event row and replaces the whole form-field set
	// in one transaction. Responses referencing removed fields are removed
	// with them.
	Update(ctx context.Context, id int64, params UpdateParams) (*Event, error)
	// Delete removes the event, its form fields, its registrations and
	// their responses in one transaction.
	Delete(ctx context.Context, id int64) error
	// ReplaceFormFields atomically swaps the event's field set.
	ReplaceFormFields(ctx context.Context, eventID int64, fields []FormFieldInput) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, includeFields bool) ([]Event, error) {
	return s.repo.List(ctx, includeFields)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	if params.Slug == nil {
		if slug := Slugify(params.Name); slug != "" {
			params.Slug = &slug
		}
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Event, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ReplaceFormFields(ctx context.Context, eventID int64, fields []FormFieldInput) error {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.ReplaceFormFields(ctx, eventID, fields)
}
