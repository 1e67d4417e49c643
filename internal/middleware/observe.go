package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/observability"
)

// statusWriter captures the response status for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Observe returns middleware that logs each request and records count and
// latency metrics. When the request carries an active span the log lines
// include trace and span IDs.
func Observe(logger *zap.Logger, metrics observability.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			if metrics != nil {
				endpoint := r.URL.Path
				if route := mux.CurrentRoute(r); route != nil {
					if tpl, err := route.GetPathTemplate(); err == nil {
						endpoint = tpl
					}
				}
				metrics.IncrementRequests(endpoint, r.Method, strconv.Itoa(sw.status))
				metrics.RecordRequestLatency(endpoint, r.Method, elapsed)
			}

			log := logger
			if span := trace.SpanFromContext(r.Context()); span.SpanContext().IsValid() {
				log = log.With(
					zap.String("trace_id", span.SpanContext().TraceID().String()),
					zap.String("span_id", span.SpanContext().SpanID().String()),
				)
			}
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", elapsed),
			)
		})
	}
}
