package handlers

import (
	"errors"
	"net/http"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/media"
)

type ImagesHandler struct {
	Site     *site.Service
	Uploader *media.Uploader
	MaxBytes int64
	Env      string
}

func NewImagesHandler(service *site.Service, uploader *media.Uploader, maxBytes int64, env string) *ImagesHandler {
	return &ImagesHandler{Site: service, Uploader: uploader, MaxBytes: maxBytes, Env: env}
}

func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.Site.ListImages(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	if images == nil {
		images = []site.Image{}
	}
	writeJSON(w, http.StatusOK, images)
}

// Upload stores the file first and records the row second, so a storage
// failure never leaves a URL-less gallery entry.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	url, err := storeImage(r, h.Uploader, "image", "gallery", h.MaxBytes)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Upload", err, h.Env)
		return
	}

	img, err := h.Site.AddImage(r.Context(), url, r.FormValue("caption"))
	if err != nil {
		h.Uploader.RemoveLocal(url)
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *ImagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid image id"), h.Env)
		return
	}

	img, err := h.Site.RemoveImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Image Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	h.Uploader.RemoveLocal(img.URL)
	w.WriteHeader(http.StatusNoContent)
}
