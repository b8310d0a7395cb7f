package handlers

import (
	"errors"
	"net/http"

	"github.com/samiti-foundation/server/internal/api/middleware"
	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/blogs"
	"github.com/samiti-foundation/server/internal/media"
)

type BlogsHandler struct {
	Blogs    *blogs.Service
	Uploader *media.Uploader
	MaxBytes int64
	Env      string
}

func NewBlogsHandler(service *blogs.Service, uploader *media.Uploader, maxBytes int64, env string) *BlogsHandler {
	return &BlogsHandler{Blogs: service, Uploader: uploader, MaxBytes: maxBytes, Env: env}
}

type blogRequest struct {
	Title         string `json:"title" validate:"required"`
	Content       string `json:"content" validate:"required"`
	Author        string `json:"author"`
	CoverImageURL string `json:"cover_image_url"`
}

func (h *BlogsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Blogs.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	if items == nil {
		items = []blogs.Blog{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BlogsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid blog id"), h.Env)
		return
	}

	blog, err := h.Blogs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, blogs.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Blog Post Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Create publishes a post. The byline defaults to the logged-in admin.
func (h *BlogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	author := req.Author
	if author == "" {
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
			author = claims.Username
		}
	}

	blog, err := h.Blogs.Create(r.Context(), blogs.CreateParams{
		Title:         req.Title,
		Content:       req.Content,
		Author:        author,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		if errors.Is(err, blogs.ErrContentRequired) {
			writeInvalidRequest(w, r, err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *BlogsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid blog id"), h.Env)
		return
	}

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	params := blogs.UpdateParams{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}
	if req.CoverImageURL != "" {
		params.CoverImageURL = &req.CoverImageURL
	}

	blog, err := h.Blogs.Update(r.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, blogs.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Blog Post Not Found", err, h.Env)
		case errors.Is(err, blogs.ErrContentRequired):
			writeInvalidRequest(w, r, err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		}
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *BlogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", errors.New("invalid blog id"), h.Env)
		return
	}

	blog, err := h.Blogs.Remove(r.Context(), id)
	if err != nil {
		if errors.Is(err, blogs.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Blog Post Not Found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	h.Uploader.RemoveLocal(blog.CoverImageURL)
	w.WriteHeader(http.StatusNoContent)
}

// UploadCover stores a cover image and returns its URL for the panel to
// attach when saving the post.
func (h *BlogsHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	url, err := storeImage(r, h.Uploader, "image", "blogs", h.MaxBytes)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Upload", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
