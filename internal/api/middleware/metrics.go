package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samiti-foundation/server/internal/metrics"
)

// Metrics records request counts and latency per route pattern. The
// pattern, not the raw path, keys the series so ids do not explode
// cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			pattern := r.Pattern
			if pattern == "" {
				pattern = "unmatched"
			}
			status := rw.status
			if status == 0 {
				status = http.StatusOK
			}
			metrics.HTTPRequestsTotal.
				WithLabelValues(r.Method, pattern, strconv.Itoa(status)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, pattern).
				Observe(time.Since(start).Seconds())
		})
	}
}
