package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/keycheck/internal/metrics"
)

// WithMetrics registra requests en vuelo, total y duración por método/path/status.
// Con m nil no hace nada.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			done := m.TrackInflight(r.Method, path)
			defer done()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			m.ObserveHTTP(r.Method, path, rec.status, time.Since(start))
		})
	}
}
