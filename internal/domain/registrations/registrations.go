package registrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the verification state of a registration. Transitions are
// admin-triggered only: pending -> verified or pending -> rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusVerified, StatusRejected:
		return Status(value), nil
	}
	return "", ErrInvalidStatus
}

var (
	ErrNotFound      = errors.New("registration not found")
	ErrEventInactive = errors.New("registration is closed for this event")
	ErrInvalidStatus = errors.New("invalid registration status")
	ErrInvalidEmail  = errors.New("valid email is required")
)

// DuplicateError reports that the (event, email) pair is already taken and
// carries the status of the existing registration for the caller.
type DuplicateError struct {
	RegistrationID int64
	Status         Status
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("email already registered for this event (status %s)", e.Status)
}

// MissingFieldsError names the required form fields that got no response,
// in form order.
type MissingFieldsError struct {
	Labels []string
}

func (e MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Labels, ", ")
}

type Registration struct {
	ID            int64
	EventID       int64
	Email         string
	ScreenshotURL string
	Status        Status
	SubmittedAt   time.Time
	Responses     []FieldResponse
}

// FieldResponse binds one submitted value to one form field. Image answers
// are stored as URLs inside Value.
type FieldResponse struct {
	ID             int64
	RegistrationID int64
	FieldID        int64
	Value          string
}

type ResponseInput struct {
	FieldID int64
	Value   string
}

type CreateParams struct {
	EventID       int64
	Email         string
	ScreenshotURL string
	Responses     []ResponseInput
}

type Repository interface {
	// Create inserts the registration and its responses as one unit.
	Create(ctx context.Context, params CreateParams) (*Registration, error)
	GetByID(ctx context.Context, id int64) (*Registration, error)
	// FindByEventAndEmail returns ErrNotFound when the pair is unclaimed.
	FindByEventAndEmail(ctx context.Context, eventID int64, email string) (*Registration, error)
	// ListByEvent returns registrations newest-first with responses loaded.
	ListByEvent(ctx context.Context, eventID int64) ([]Registration, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// NormalizeEmail lowercases and trims a submitted address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.IndexByte(domain, '@') >= 0 {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}

// missingRequiredLabels returns labels of required fields with no non-empty
// response, ordered by the form's field order.
func missingRequiredLabels(fields []formField, responses []ResponseInput) []string {
	answered := make(map[int64]bool, len(responses))
	for _, resp := range responses {
		if strings.TrimSpace(resp.Value) != "" {
			answered[resp.FieldID] = true
		}
	}

	ordered := make([]formField, len(fields))
	copy(ordered, fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].ID < ordered[j].ID
	})

	var missing []string
	for _, field := range ordered {
		if field.Required && !answered[field.ID] {
			missing = append(missing, field.Label)
		}
	}
	return missing
}

type formField struct {
	ID       int64
	Label    string
	Required bool
	Order    int
}
