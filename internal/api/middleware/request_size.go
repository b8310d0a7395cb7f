package middleware

import (
	"net/http"
)

const (
	// PublicMaxBodySize caps unauthenticated JSON bodies at 1MB.
	PublicMaxBodySize int64 = 1 << 20

	// AdminMaxBodySize caps admin JSON bodies at 5MB.
	AdminMaxBodySize int64 = 5 << 20
)

// RequestSize wraps the body with http.MaxBytesReader so a read past
// maxBytes fails instead of buffering an unbounded payload.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// PublicRequestSize limits request bodies on public endpoints.
func PublicRequestSize() func(http.Handler) http.Handler {
	return RequestSize(PublicMaxBodySize)
}

// AdminRequestSize limits request bodies on admin endpoints.
func AdminRequestSize() func(http.Handler) http.Handler {
	return RequestSize(AdminMaxBodySize)
}
