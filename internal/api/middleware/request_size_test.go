package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestSizeLimitsBody(t *testing.T) {
	cases := []struct {
		name     string
		maxBytes int64
		bodySize int
		want     int
	}{
		{"under limit", 1024, 512, http.StatusOK},
		{"at limit", 1024, 1024, http.StatusOK},
		{"over limit", 1024, 2048, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, err := io.ReadAll(r.Body); err != nil {
					var tooLarge *http.MaxBytesError
					require.ErrorAs(t, err, &tooLarge)
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			})

			body := bytes.Repeat([]byte("x"), tc.bodySize)
			req := httptest.NewRequest("POST", "/api/v1/events/5/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			RequestSize(tc.maxBytes)(inner).ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequestSizeAllowsBodilessRequests(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	PublicRequestSize()(inner).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
