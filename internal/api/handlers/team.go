package handlers

import (
	"errors"
	"net/http"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/media"
)

type TeamHandler struct {
	Site     *site.Service
	Uploader *media.Uploader
	MaxBytes int64
	Env      string
}

func NewTeamHandler(service *site.Service, uploader *media.Uploader, maxBytes int64, env string) *TeamHandler {
	return &TeamHandler{Site: service, Uploader: uploader, MaxBytes: maxBytes, Env: env}
}

type teamMemberRequest struct {
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role" validate:"required"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.Site.ListTeamMembers(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	if members == nil {
		members = []site.TeamMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req teamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	member, err := h.Site.AddTeamMember(r.Context(), site.TeamMemberParams{
		Name:        req.Name,
		Role:        req.Role,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, site.ErrNameRoleRequired) {
			writeInvalidRequest(w, r, err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid team member id"), h.Env)
		return
	}

	var req teamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	member, err := h.Site.UpdateTeamMember(r.Context(), id, site.TeamMemberParams{
		Name:        req.Name,
		Role:        req.Role,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Team Member Not Found", err, h.Env)
			return
		}
		if errors.Is(err, site.ErrNameRoleRequired) {
			writeInvalidRequest(w, r, err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid team member id"), h.Env)
		return
	}

	member, err := h.Site.RemoveTeamMember(r.Context(), id)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Team Member Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	h.Uploader.RemoveLocal(member.ImageURL)
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto stores a member portrait and returns its URL for the panel
// to attach on create or update.
func (h *TeamHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	url, err := storeImage(r, h.Uploader, "image", "team", h.MaxBytes)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Upload", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
