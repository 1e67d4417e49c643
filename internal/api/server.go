// Package api exposes the wizard core to its UI-layer callers over HTTP:
// session lifecycle, field changes, step transitions, reference data and
// submission.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/backend"
	"github.com/hawkbud003/dsahboard/internal/config"
	"github.com/hawkbud003/dsahboard/internal/db"
	"github.com/hawkbud003/dsahboard/internal/observability"
	"github.com/hawkbud003/dsahboard/internal/refdata"
	"github.com/hawkbud003/dsahboard/internal/wizard"
)

// Wizard flows served by this API.
const (
	FlowCampaign = "campaign"
	FlowCreative = "creative"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger  *zap.Logger
	Backend *backend.Client
	RefData *refdata.Aggregator
	Handoff *db.HandoffStore
	Metrics observability.MetricsRegistry
	Config  config.Config

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry pairs a wizard session with the mutex that serializes access
// to it. Session itself is single-threaded; every handler touching the
// session or reading its state must hold mu. lastUsed is guarded by the
// server's map mutex, not this one.
type sessionEntry struct {
	flow    string
	session *wizard.Session

	mu       sync.Mutex
	lastUsed time.Time
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, be *backend.Client, ref *refdata.Aggregator, handoff *db.HandoffStore, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:   logger,
		Backend:  be,
		RefData:  ref,
		Handoff:  handoff,
		Metrics:  metrics,
		Config:   cfg,
		sessions: make(map[string]*sessionEntry),
	}
}

// Routes registers the API on the router.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/refdata", s.RefDataHandler).Methods("GET")
	api.HandleFunc("/handoff", s.StashHandoffHandler).Methods("POST")
	api.HandleFunc("/uploads", s.UploadHandler).Methods("POST")

	api.HandleFunc("/wizard", s.StartWizardHandler).Methods("POST")
	api.HandleFunc("/wizard/{id}", s.GetWizardHandler).Methods("GET")
	api.HandleFunc("/wizard/{id}/fields/{field}", s.UpdateFieldHandler).Methods("PUT")
	api.HandleFunc("/wizard/{id}/advance", s.AdvanceHandler).Methods("POST")
	api.HandleFunc("/wizard/{id}/retreat", s.RetreatHandler).Methods("POST")
	api.HandleFunc("/wizard/{id}/submit", s.SubmitHandler).Methods("POST")
}

// HealthHandler responds with a simple status check.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// helper function to write JSON response
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// authFromRequest builds the explicit auth context from request headers.
func authFromRequest(r *http.Request) refdata.AuthContext {
	token := r.Header.Get("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	return refdata.AuthContext{
		Token:    token,
		UserType: r.Header.Get("X-User-Type"),
	}
}

func (s *Server) lookupSession(id string) (*sessionEntry, bool) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.stale(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastUsed = now
	return entry, true
}

func (s *Server) storeSession(entry *sessionEntry) string {
	id := uuid.NewString()
	now := time.Now()
	entry.lastUsed = now
	s.mu.Lock()
	// Abandoned wizards are swept here rather than by a background timer;
	// session creation is the only path that grows the map.
	for staleID, e := range s.sessions {
		if s.stale(e, now) {
			delete(s.sessions, staleID)
		}
	}
	s.sessions[id] = entry
	s.mu.Unlock()
	return id
}

// stale reports whether the entry has been idle past the configured session
// TTL. Callers hold s.mu.
func (s *Server) stale(entry *sessionEntry, now time.Time) bool {
	ttl := s.Config.SessionTTL
	return ttl > 0 && now.Sub(entry.lastUsed) > ttl
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
