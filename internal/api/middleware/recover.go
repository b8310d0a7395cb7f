package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/samiti-foundation/server/internal/api/problem"
)

// Recover converts handler panics into 500 problem responses instead of
// dropping the connection.
func Recover(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					zerolog.Ctx(r.Context()).Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Str("path", r.URL.Path).
						Msg("handler panic")
					problem.Write(w, r, http.StatusInternalServerError,
						"internal", "Internal Server Error", nil, env)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
