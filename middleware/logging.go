package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"
)

// Logger writes one logrus entry per request. Responses with a status of
// 400 or above are logged as warnings.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry := logger.WithFields(log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"latency":    time.Since(start).String(),
				"request_id": chimiddleware.GetReqID(r.Context()),
			})
			if email, ok := GetAdminEmail(r.Context()); ok {
				entry = entry.WithField("admin", email)
			}
			if ww.Status() >= http.StatusBadRequest {
				entry.Warn("api request")
			} else {
				entry.Info("api request")
			}
		})
	}
}
