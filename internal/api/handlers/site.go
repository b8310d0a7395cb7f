package handlers

import (
	"errors"
	"net/http"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/media"
)

// SiteHandler serves the editable front-page content.
type SiteHandler struct {
	Site     *site.Service
	Uploader *media.Uploader
	Env      string
}

func NewSiteHandler(service *site.Service, uploader *media.Uploader, env string) *SiteHandler {
	return &SiteHandler{Site: service, Uploader: uploader, Env: env}
}

func (h *SiteHandler) GetIntro(w http.ResponseWriter, r *http.Request) {
	intro, err := h.Site.GetIntro(r.Context())
	if errors.Is(err, site.ErrNotFound) {
		// No intro configured yet; the site renders an empty section.
		writeJSON(w, http.StatusOK, site.Intro{})
		return
	}
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, intro)
}

type introRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *SiteHandler) PutIntro(w http.ResponseWriter, r *http.Request) {
	var req introRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	intro, err := h.Site.SetIntro(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, site.ErrTextRequired) {
			writeInvalidRequest(w, r, err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, intro)
}

func (h *SiteHandler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Site.GetContactInfo(r.Context())
	if errors.Is(err, site.ErrNotFound) {
		writeJSON(w, http.StatusOK, site.ContactInfo{})
		return
	}
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type contactInfoRequest struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

func (h *SiteHandler) PutContactInfo(w http.ResponseWriter, r *http.Request) {
	var req contactInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	info, err := h.Site.SetContactInfo(r.Context(), site.ContactInfoParams{
		Instagram: req.Instagram,
		Facebook:  req.Facebook,
		Twitter:   req.Twitter,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
