package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/backend"
	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/wizard"
)

// wizardStateView is the session state exposed to UI callers.
type wizardStateView struct {
	ID               string             `json:"id"`
	Flow             string             `json:"flow"`
	Step             int                `json:"step"`
	TotalSteps       int                `json:"total_steps"`
	StepName         string             `json:"step_name"`
	MandatoryFields  []string           `json:"mandatory_fields"`
	FieldErrors      map[string]string  `json:"field_errors"`
	RootError        string             `json:"root_error,omitempty"`
	Form             map[string]any     `json:"form"`
	TargetPopulation int64              `json:"target_population"`
	TotalPopulation  int64              `json:"total_population"`
	TargetTypeLabel  string             `json:"target_type_label"`
	IsEdit           bool               `json:"is_edit"`
	ReviewRows       []wizard.ReviewRow `json:"review_rows,omitempty"`
	LoadError        string             `json:"load_error,omitempty"`
}

func stateView(id string, entry *sessionEntry) wizardStateView {
	sess := entry.session
	view := wizardStateView{
		ID:               id,
		Flow:             entry.flow,
		Step:             sess.Step(),
		TotalSteps:       len(sess.Steps()),
		StepName:         sess.CurrentStep().Name,
		MandatoryFields:  sess.MandatoryFields(),
		FieldErrors:      sess.FieldErrors(),
		RootError:        sess.RootError(),
		Form:             sess.Form().Values(),
		TargetPopulation: sess.TargetPopulation(),
		TotalPopulation:  sess.TotalPopulation(),
		TargetTypeLabel:  sess.TargetTypeLabel(),
		IsEdit:           sess.IsEdit(),
	}
	if sess.AtFinalStep() {
		view.ReviewRows = sess.ReviewRows()
	}
	return view
}

type startWizardRequest struct {
	Flow         string `json:"flow"`
	HandoffToken string `json:"handoff_token,omitempty"`
}

// StartWizardHandler opens a new wizard session. The reference snapshot is
// loaded (once per auth token) before the session starts; a failed load
// still yields a usable session over the previous snapshot, with the error
// surfaced as a single message.
func (s *Server) StartWizardHandler(w http.ResponseWriter, r *http.Request) {
	var req startWizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Flow != FlowCampaign && req.Flow != FlowCreative {
		writeError(w, http.StatusBadRequest, "unknown wizard flow")
		return
	}

	auth := authFromRequest(r)
	ctx := backend.WithToken(r.Context(), auth.Token)

	var loadError string
	if err := s.RefData.EnsureLoaded(ctx, auth); err != nil {
		s.Logger.Warn("reference data load failed", zap.Error(err))
		loadError = "Failed to load reference data. Please try again."
	}

	var handoff *wizard.EditHandoff
	if req.HandoffToken != "" && s.Handoff != nil {
		h, err := s.Handoff.Take(ctx, req.HandoffToken)
		if err != nil {
			s.Logger.Error("take edit handoff", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		handoff = h
	}

	cfg := wizard.Config{
		Handoff:        handoff,
		CurrencySymbol: s.Config.CurrencySymbol,
		Logger:         s.Logger,
		Metrics:        s.Metrics,
	}
	var sess *wizard.Session
	switch req.Flow {
	case FlowCampaign:
		sess = wizard.NewCampaignSession(cfg)
	case FlowCreative:
		sess = wizard.NewCreativeSession(cfg)
	}
	sess.SetSnapshot(s.RefData.Snapshot())

	entry := &sessionEntry{flow: req.Flow, session: sess}
	id := s.storeSession(entry)

	entry.mu.Lock()
	view := stateView(id, entry)
	entry.mu.Unlock()
	view.LoadError = loadError
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, view)
}

// GetWizardHandler returns the session's current state.
func (s *Server) GetWizardHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.lookupSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	writeJSON(w, stateView(id, entry))
}

type updateFieldRequest struct {
	Value any `json:"value"`
}

// UpdateFieldHandler applies one field change and resolves dependent updates.
func (s *Server) UpdateFieldHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry, ok := s.lookupSession(vars["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return
	}
	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.session.ApplyChange(vars["field"], req.Value); err != nil {
		if errors.Is(err, wizard.ErrUnknownField) {
			writeError(w, http.StatusBadRequest, "unknown field "+vars["field"])
			return
		}
		s.Logger.Error("apply field change", zap.String("field", vars["field"]), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, stateView(vars["id"], entry))
}

type advanceResponse struct {
	Advanced bool `json:"advanced"`
	wizardStateView
}

// AdvanceHandler attempts to move the session forward one step. All failing
// mandatory fields are reported together.
func (s *Server) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.lookupSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	advanced := entry.session.Advance()
	writeJSON(w, advanceResponse{Advanced: advanced, wizardStateView: stateView(id, entry)})
}

// RetreatHandler moves the session back one step, unconditionally.
func (s *Server) RetreatHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.lookupSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.session.Retreat()
	writeJSON(w, stateView(id, entry))
}

// SubmitHandler persists the finished form through the backend. Failures
// become the session's root error and leave every entered value in place.
func (s *Server) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.lookupSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "wizard session not found")
		return
	}
	auth := authFromRequest(r)
	ctx := backend.WithToken(r.Context(), auth.Token)

	var submitter wizard.Submitter
	switch entry.flow {
	case FlowCreative:
		submitter = creativeSubmitter{client: s.Backend}
	default:
		submitter = campaignSubmitter{client: s.Backend}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.session.Submit(ctx, submitter); err != nil {
		// Session keeps the form; the caller may retry.
		writeJSON(w, stateView(id, entry))
		return
	}
	s.dropSession(id)
	writeJSON(w, map[string]any{"submitted": true})
}

// campaignSubmitter adapts the backend client to the wizard's Submitter.
type campaignSubmitter struct {
	client *backend.Client
}

func (cs campaignSubmitter) Submit(ctx context.Context, form *forms.FormState, isUpdate bool, id int64) error {
	return cs.client.SubmitCampaign(ctx, form, isUpdate, id)
}

type creativeSubmitter struct {
	client *backend.Client
}

func (cs creativeSubmitter) Submit(ctx context.Context, form *forms.FormState, _ bool, _ int64) error {
	return cs.client.SubmitCreative(ctx, form)
}
