package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/domain/registrations"
	"github.com/samiti-foundation/server/internal/media"
	"github.com/samiti-foundation/server/internal/metrics"
	"github.com/samiti-foundation/server/internal/report"
)

type RegistrationsHandler struct {
	Registrations *registrations.Service
	Uploader      *media.Uploader
	MaxBytes      int64
	Env           string
}

func NewRegistrationsHandler(service *registrations.Service, uploader *media.Uploader, maxBytes int64, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Registrations: service, Uploader: uploader, MaxBytes: maxBytes, Env: env}
}

type responseInput struct {
	FieldID int64  `json:"field_id" validate:"required"`
	Value   string `json:"value"`
}

type submitRequest struct {
	Email         string          `json:"email" validate:"required"`
	ScreenshotURL string          `json:"screenshot_url"`
	Responses     []responseInput `json:"responses" validate:"dive"`
}

type fieldResponseJSON struct {
	FieldID int64  `json:"field_id"`
	Value   string `json:"value"`
}

type registrationResponse struct {
	ID            int64               `json:"id"`
	EventID       int64               `json:"event_id"`
	Email         string              `json:"email"`
	ScreenshotURL string              `json:"screenshot_url,omitempty"`
	Status        string              `json:"status"`
	SubmittedAt   time.Time           `json:"submitted_at"`
	Responses     []fieldResponseJSON `json:"responses,omitempty"`
}

func toRegistrationResponse(reg *registrations.Registration) registrationResponse {
	resp := registrationResponse{
		ID:            reg.ID,
		EventID:       reg.EventID,
		Email:         reg.Email,
		ScreenshotURL: reg.ScreenshotURL,
		Status:        string(reg.Status),
		SubmittedAt:   reg.SubmittedAt,
	}
	for _, fr := range reg.Responses {
		resp.Responses = append(resp.Responses, fieldResponseJSON{FieldID: fr.FieldID, Value: fr.Value})
	}
	return resp
}

// Submit takes a public registration for an event.
func (h *RegistrationsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		metrics.RegistrationsSubmitted.WithLabelValues("invalid").Inc()
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	params := registrations.SubmitParams{
		EventID:       eventID,
		Email:         req.Email,
		ScreenshotURL: req.ScreenshotURL,
	}
	for _, resp := range req.Responses {
		params.Responses = append(params.Responses, registrations.ResponseInput{
			FieldID: resp.FieldID,
			Value:   resp.Value,
		})
	}

	created, err := h.Registrations.Submit(r.Context(), params)
	if err != nil {
		h.writeSubmitError(w, r, err)
		return
	}

	metrics.RegistrationsSubmitted.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusCreated, toRegistrationResponse(created))
}

func (h *RegistrationsHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var dup registrations.DuplicateError
	if errors.As(err, &dup) {
		metrics.RegistrationsSubmitted.WithLabelValues("duplicate").Inc()
		problem.Write(w, r, http.StatusConflict, typeConflict, "Already Registered", err, h.Env,
			problem.WithErrors(map[string]any{"status": string(dup.Status)}))
		return
	}

	var missing registrations.MissingFieldsError
	if errors.As(err, &missing) {
		metrics.RegistrationsSubmitted.WithLabelValues("invalid").Inc()
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Missing Required Fields", err, h.Env,
			problem.WithErrors(map[string]any{"missing_fields": missing.Labels}))
		return
	}

	switch {
	case errors.Is(err, registrations.ErrInvalidEmail):
		metrics.RegistrationsSubmitted.WithLabelValues("invalid").Inc()
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Email", err, h.Env)
	case errors.Is(err, registrations.ErrEventInactive):
		metrics.RegistrationsSubmitted.WithLabelValues("invalid").Inc()
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Registration Closed", err, h.Env)
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
	}
}

// CheckEmail reports whether an address already registered for the
// event, so the public form can warn before submission.
func (h *RegistrationsHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	existing, _, err := h.Registrations.CheckEmail(r.Context(), eventID, r.URL.Query().Get("email"))
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrInvalidEmail):
			problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Email", err, h.Env)
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		}
		return
	}

	if existing == nil {
		writeJSON(w, http.StatusOK, map[string]any{"registered": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"registered": true,
		"status":     string(existing.Status),
	})
}

// UploadScreenshot stores a payment proof ahead of submission.
func (h *RegistrationsHandler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	url, err := storeImage(r, h.Uploader, "screenshot", "screenshots", h.MaxBytes)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Upload", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *RegistrationsHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	items, err := h.Registrations.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	resp := make([]registrationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toRegistrationResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *RegistrationsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid registration id"), h.Env)
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	if err := h.Registrations.SetStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, registrations.ErrInvalidStatus):
			problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Status", err, h.Env)
		case errors.Is(err, registrations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Registration Not Found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		}
		return
	}

	reg, err := h.Registrations.GetByID(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

// Export streams the event's registrations as CSV or an Excel workbook.
func (h *RegistrationsHandler) Export(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request",
			errors.New("format must be csv or xlsx"), h.Env)
		return
	}

	result, err := h.Registrations.Export(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	filename := report.Filename(result.Event.Name, format, time.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	metrics.ExportsTotal.WithLabelValues(format).Inc()
	if format == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := report.WriteXLSX(w, result.Table, result.Summary); err != nil {
			problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	if err := report.WriteCSV(w, result.Table); err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
	}
}

// Screenshot serves the payment proof for review. Local files stream
// from disk; remote URLs redirect.
func (h *RegistrationsHandler) Screenshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid registration id"), h.Env)
		return
	}

	reg, err := h.Registrations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Registration Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	if reg.ScreenshotURL == "" {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "No Screenshot", errors.New("registration has no screenshot"), h.Env)
		return
	}

	if path, local := h.Uploader.LocalPath(reg.ScreenshotURL); local {
		http.ServeFile(w, r, path)
		return
	}
	http.Redirect(w, r, reg.ScreenshotURL, http.StatusFound)
}
