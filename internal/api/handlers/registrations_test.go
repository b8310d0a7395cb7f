package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/samiti-foundation/server/internal/api/middleware"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/domain/registrations"
	"github.com/samiti-foundation/server/internal/media"
)

type stubEventsRepo struct {
	event *events.Event
}

func (s *stubEventsRepo) List(context.Context, bool) ([]events.Event, error) { return nil, nil }

func (s *stubEventsRepo) GetByID(_ context.Context, id int64) (*events.Event, error) {
	if s.event == nil || s.event.ID != id {
		return nil, events.ErrNotFound
	}
	clone := *s.event
	return &clone, nil
}

func (s *stubEventsRepo) Create(context.Context, events.CreateParams) (*events.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *stubEventsRepo) Update(context.Context, int64, events.UpdateParams) (*events.Event, error) {
	return nil, errors.New("not implemented")
}

func (s *stubEventsRepo) Delete(context.Context, int64) error { return errors.New("not implemented") }

func (s *stubEventsRepo) ReplaceFormFields(context.Context, int64, []events.FormFieldInput) error {
	return errors.New("not implemented")
}

type memRegistrationsRepo struct {
	nextID int64
	items  map[int64]*registrations.Registration
}

func (m *memRegistrationsRepo) Create(_ context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	reg := &registrations.Registration{
		ID:            m.nextID,
		EventID:       params.EventID,
		Email:         params.Email,
		ScreenshotURL: params.ScreenshotURL,
		Status:        registrations.StatusPending,
		SubmittedAt:   time.Now(),
	}
	for _, resp := range params.Responses {
		reg.Responses = append(reg.Responses, registrations.FieldResponse{
			FieldID: resp.FieldID, Value: resp.Value, RegistrationID: reg.ID,
		})
	}
	m.items[reg.ID] = reg
	m.nextID++
	return reg, nil
}

func (m *memRegistrationsRepo) GetByID(_ context.Context, id int64) (*registrations.Registration, error) {
	reg, ok := m.items[id]
	if !ok {
		return nil, registrations.ErrNotFound
	}
	return reg, nil
}

func (m *memRegistrationsRepo) FindByEventAndEmail(_ context.Context, eventID int64, email string) (*registrations.Registration, error) {
	for _, reg := range m.items {
		if reg.EventID == eventID && reg.Email == email {
			return reg, nil
		}
	}
	return nil, registrations.ErrNotFound
}

func (m *memRegistrationsRepo) ListByEvent(_ context.Context, eventID int64) ([]registrations.Registration, error) {
	var out []registrations.Registration
	for _, reg := range m.items {
		if reg.EventID == eventID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (m *memRegistrationsRepo) UpdateStatus(_ context.Context, id int64, status registrations.Status) error {
	reg, ok := m.items[id]
	if !ok {
		return registrations.ErrNotFound
	}
	reg.Status = status
	return nil
}

func newRegistrationsHandler(t *testing.T) *RegistrationsHandler {
	t.Helper()
	event := &events.Event{
		ID:       5,
		Name:     "Hackathon",
		Date:     time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		IsActive: true,
		FormFields: []events.FormField{
			{ID: 1, EventID: 5, Label: "Team Name", FieldType: "text", Required: true, Order: 0},
			{ID: 2, EventID: 5, Label: "College", FieldType: "text", Required: true, Order: 1},
		},
	}
	repo := &memRegistrationsRepo{nextID: 1, items: map[int64]*registrations.Registration{}}
	service := registrations.NewService(repo, &stubEventsRepo{event: event}, zerolog.Nop())
	uploader := media.NewUploader(nil, media.NewLocalStore(t.TempDir()), zerolog.Nop())
	return NewRegistrationsHandler(service, uploader, 5<<20, "test")
}

func submitRequestFor(eventID, body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/v1/events/"+eventID+"/register", strings.NewReader(body))
	req.SetPathValue("id", eventID)
	return req
}

func TestSubmitHandlerCreated(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"Team@Example.com","responses":[{"field_id":1,"value":"Alpha"},{"field_id":2,"value":"IIT"}]}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp registrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "pending", resp.Status)
	require.Equal(t, "team@example.com", resp.Email)
}

func TestSubmitHandlerMissingFields(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"team@example.com","responses":[{"field_id":1,"value":"Alpha"}]}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var p struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, []string{"College"}, p.Errors["missing_fields"])
}

func TestSubmitHandlerDuplicateConflict(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"team@example.com","responses":[{"field_id":1,"value":"Alpha"},{"field_id":2,"value":"IIT"}]}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))
	require.Equal(t, http.StatusConflict, rec.Code)

	var p struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "pending", p.Errors["status"])
}

func TestSubmitHandlerValidatesBody(t *testing.T) {
	handler := newRegistrationsHandler(t)

	for _, body := range []string{
		`{"responses":[{"field_id":1,"value":"Alpha"}]}`,
		`{"email":"team@example.com","responses":[{"field_id":0,"value":"Alpha"}]}`,
	} {
		rec := httptest.NewRecorder()
		handler.Submit(rec, submitRequestFor("5", body))

		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	}
}

func TestSubmitHandlerPayloadTooLarge(t *testing.T) {
	handler := newRegistrationsHandler(t)
	wrapped := middleware.RequestSize(64)(http.HandlerFunc(handler.Submit))

	body := `{"email":"team@example.com","responses":[{"field_id":1,"value":"` +
		strings.Repeat("x", 1024) + `"}]}`
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, submitRequestFor("5", body))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSubmitHandlerUnknownEvent(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"team@example.com"}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("99", body))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetStatusHandler(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"team@example.com","responses":[{"field_id":1,"value":"Alpha"},{"field_id":2,"value":"IIT"}]}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created registrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	statusReq := httptest.NewRequest("PUT", "/api/v1/admin/registrations/1/status",
		strings.NewReader(`{"status":"verified"}`))
	statusReq.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	handler.SetStatus(rec, statusReq)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated registrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "verified", updated.Status)

	badReq := httptest.NewRequest("PUT", "/api/v1/admin/registrations/1/status",
		strings.NewReader(`{"status":"approved"}`))
	badReq.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	handler.SetStatus(rec, badReq)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerCSV(t *testing.T) {
	handler := newRegistrationsHandler(t)

	body := `{"email":"team@example.com","responses":[{"field_id":1,"value":"Alpha"},{"field_id":2,"value":"IIT"}]}`
	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequestFor("5", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	exportReq := httptest.NewRequest("GET", "/api/v1/admin/events/5/registrations/export?format=csv", nil)
	exportReq.SetPathValue("id", "5")
	rec = httptest.NewRecorder()
	handler.Export(rec, exportReq)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "Hackathon_registrations_")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Email,Timestamp,Status,Screenshot URL,Team Name,College", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "team@example.com,"))
}

func TestExportHandlerBadFormat(t *testing.T) {
	handler := newRegistrationsHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/admin/events/5/registrations/export?format=pdf", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	handler.Export(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
