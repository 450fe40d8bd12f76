package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// instrument wraps a route handler: it turns panics into 500 responses,
// records request metrics under endpoint and logs server errors.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "handler panic",
					logger.String("endpoint", endpoint),
					logger.Any("panic", p),
				)
				if !sw.wrote {
					writeJSON(sw, http.StatusInternalServerError, errorResponse{Code: "internal", Message: "internal error"})
				}
			}

			took := time.Since(start)
			status := strconv.Itoa(sw.status)
			metrics.RecordHTTPRequest(endpoint, r.Method, status)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(took.Microseconds())/1000)

			fields := []logger.Field{
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.Int("status", sw.status),
				logger.Duration("took", took),
			}
			if sw.status >= http.StatusInternalServerError {
				s.logger.Error(r.Context(), "request failed", fields...)
				return
			}
			s.logger.Debug(r.Context(), "request served", fields...)
		}()

		next.ServeHTTP(sw, r)
	}
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if w.wrote {
		return
	}
	w.status, w.wrote = code, true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}
