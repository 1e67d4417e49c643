package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/observability"
)

func TestObserveRecordsRequestMetrics(t *testing.T) {
	metrics := observability.NewMockMetricsRegistry()

	r := mux.NewRouter()
	r.Use(Observe(zap.NewNop(), metrics))
	r.HandleFunc("/wizard/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/wizard/abc123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	// The route template keeps metric labels low-cardinality.
	if metrics.Requests["/wizard/{id} GET 418"] != 1 {
		t.Fatalf("requests = %v", metrics.Requests)
	}
}

func TestObserveDefaultsStatusOK(t *testing.T) {
	metrics := observability.NewMockMetricsRegistry()

	r := mux.NewRouter()
	r.Use(Observe(zap.NewNop(), metrics))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if metrics.Requests["/health GET 200"] != 1 {
		t.Fatalf("requests = %v", metrics.Requests)
	}
}
