// Package media stores uploaded files. Remote object storage is
// preferred when configured; a local directory under the server's upload
// root is the fallback, so uploads keep working without credentials.
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnavailable marks a store that cannot take uploads right now, e.g.
// object storage without credentials. Callers fall back instead of
// failing the request.
var ErrUnavailable = errors.New("media store unavailable")

// Store writes one blob and returns the public URL it is reachable at.
type Store interface {
	Upload(ctx context.Context, body io.Reader, folder, filename, contentType string) (string, error)
}

// UniqueFilename keeps the original extension and replaces the name with
// a fresh uuid so concurrent uploads cannot collide.
func UniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}
