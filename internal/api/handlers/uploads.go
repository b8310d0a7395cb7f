package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/media"
	"github.com/samiti-foundation/server/internal/metrics"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// formImage pulls the named image file out of a multipart request,
// enforcing the size cap and the allowed extensions.
func formImage(r *http.Request, field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("missing %q file", field)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		file.Close()
		return nil, nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return file, header, nil
}

// storeImage uploads the file under the given folder and returns its URL.
func storeImage(r *http.Request, uploader *media.Uploader, field, folder string, maxBytes int64) (string, error) {
	file, header, err := formImage(r, field, maxBytes)
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	filename := media.UniqueFilename(header.Filename)
	url, err := uploader.Upload(r.Context(), file, folder, filename, contentType)
	if err != nil {
		return "", err
	}

	store := "remote"
	if strings.HasPrefix(url, media.URLPrefix) {
		store = "local"
	}
	metrics.UploadsTotal.WithLabelValues(store).Inc()
	return url, nil
}

// UploadsHandler serves locally stored files under /uploads/.
type UploadsHandler struct {
	Root string
	Env  string
}

func NewUploadsHandler(root, env string) *UploadsHandler {
	return &UploadsHandler{Root: root, Env: env}
}

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := filepath.Clean(r.PathValue("path"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "File Not Found", nil, h.Env)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.Root, rel))
}
