package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/media"
)

type EventsHandler struct {
	Events   *events.Service
	Uploader *media.Uploader
	MaxBytes int64
	Env      string
}

func NewEventsHandler(service *events.Service, uploader *media.Uploader, maxBytes int64, env string) *EventsHandler {
	return &EventsHandler{Events: service, Uploader: uploader, MaxBytes: maxBytes, Env: env}
}

const dateLayout = "2006-01-02"

type formFieldResponse struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	FieldType string `json:"field_type"`
	Required  bool   `json:"required"`
	Order     int    `json:"order"`
}

type eventResponse struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Date          string              `json:"date"`
	Description   string              `json:"description,omitempty"`
	IsActive      bool                `json:"is_active"`
	CoverImageURL string              `json:"cover_image_url,omitempty"`
	QRCodeURL     string              `json:"qr_code_url,omitempty"`
	Slug          *string             `json:"slug,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	FormFields    []formFieldResponse `json:"form_fields,omitempty"`
}

func toEventResponse(event *events.Event) eventResponse {
	resp := eventResponse{
		ID:            event.ID,
		Name:          event.Name,
		Date:          event.Date.Format(dateLayout),
		Description:   event.Description,
		IsActive:      event.IsActive,
		CoverImageURL: event.CoverImageURL,
		QRCodeURL:     event.QRCodeURL,
		Slug:          event.Slug,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
	for _, field := range event.FormFields {
		resp.FormFields = append(resp.FormFields, formFieldResponse{
			ID:        field.ID,
			Label:     field.Label,
			FieldType: field.FieldType,
			Required:  field.Required,
			Order:     field.Order,
		})
	}
	return resp
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	includeFields := r.URL.Query().Get("include_fields") == "true"
	items, err := h.Events.List(r.Context(), includeFields)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	resp := make([]eventResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toEventResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	event, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

type formFieldRequest struct {
	Label     string `json:"label" validate:"required"`
	FieldType string `json:"field_type"`
	Required  bool   `json:"required"`
	Order     *int   `json:"order"`
}

type createEventRequest struct {
	Name        string             `json:"name" validate:"required"`
	Date        string             `json:"date" validate:"required"`
	Description string             `json:"description"`
	IsActive    *bool              `json:"is_active"`
	FormFields  []formFieldRequest `json:"form_fields" validate:"dive"`
}

// fieldInputs converts request fields, defaulting an omitted order to
// the field's position. An explicit 0 is kept as written.
func fieldInputs(fields []formFieldRequest) []events.FormFieldInput {
	inputs := make([]events.FormFieldInput, 0, len(fields))
	for i, field := range fields {
		order := i
		if field.Order != nil {
			order = *field.Order
		}
		inputs = append(inputs, events.FormFieldInput{
			Label:     field.Label,
			FieldType: field.FieldType,
			Required:  field.Required,
			Order:     order,
		})
	}
	return inputs
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	event, err := h.Events.Create(r.Context(), events.CreateParams{
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		IsActive:    isActive,
		Fields:      fieldInputs(req.FormFields),
	})
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

type updateEventRequest struct {
	Name        string              `json:"name" validate:"required"`
	Date        string              `json:"date" validate:"required"`
	Description string              `json:"description"`
	IsActive    *bool               `json:"is_active"`
	FormFields  *[]formFieldRequest `json:"form_fields" validate:"omitempty,dive"`
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	params := events.UpdateParams{
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		IsActive:    isActive,
	}
	if req.FormFields != nil {
		params.Fields = fieldInputs(*req.FormFields)
	}

	event, err := h.Events.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// Delete removes the event with its form and every registration made
// against it.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	event, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	if err := h.Events.Delete(r.Context(), id); err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	h.Uploader.RemoveLocal(event.CoverImageURL)
	h.Uploader.RemoveLocal(event.QRCodeURL)
	w.WriteHeader(http.StatusNoContent)
}

type defineFormRequest struct {
	FormFields []formFieldRequest `json:"form_fields" validate:"required,dive"`
}

// DefineForm replaces the whole registration form in one shot. Responses
// tied to removed fields are dropped with them.
func (h *EventsHandler) DefineForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	var req defineFormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	if err := h.Events.ReplaceFormFields(r.Context(), id, fieldInputs(req.FormFields)); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	event, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// UploadCover attaches a cover image to the event.
func (h *EventsHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.uploadEventImage(w, r, "covers", func(url string) events.UpdateParams {
		return events.UpdateParams{CoverImageURL: &url}
	})
}

// UploadQR attaches the payment QR code shown during registration.
func (h *EventsHandler) UploadQR(w http.ResponseWriter, r *http.Request) {
	h.uploadEventImage(w, r, "qr", func(url string) events.UpdateParams {
		return events.UpdateParams{QRCodeURL: &url}
	})
}

func (h *EventsHandler) uploadEventImage(w http.ResponseWriter, r *http.Request, folder string, patch func(url string) events.UpdateParams) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid event id"), h.Env)
		return
	}

	event, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Event Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	url, err := storeImage(r, h.Uploader, "image", folder, h.MaxBytes)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Upload", err, h.Env)
		return
	}

	params := patch(url)
	params.Name = event.Name
	params.Date = event.Date
	params.Description = event.Description
	params.IsActive = event.IsActive

	updated, err := h.Events.Update(r.Context(), id, params)
	if err != nil {
		h.Uploader.RemoveLocal(url)
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(updated))
}
