package wizard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/logic"
	"github.com/hawkbud003/dsahboard/internal/observability"
	"github.com/hawkbud003/dsahboard/internal/refdata"
)

// ErrUnknownField is returned when a change targets a field outside the
// wizard's schema.
var ErrUnknownField = errors.New("unknown form field")

// ErrNoSubmitter is returned when Submit is called without a submitter.
var ErrNoSubmitter = errors.New("submitter is nil")

// Event is a notification to the session's observers.
type Event int

const (
	// EventViewReset asks the view to scroll back to the top, fired on every
	// step change in either direction.
	EventViewReset Event = iota
	// EventStepChanged signals the current step index moved.
	EventStepChanged
	// EventDerivedChanged signals the population estimate or interest label
	// was recomputed.
	EventDerivedChanged
)

// Submitter persists a finished form. Implemented by the backend client.
type Submitter interface {
	Submit(ctx context.Context, form *forms.FormState, isUpdate bool, id int64) error
}

// Config carries a session's explicit dependencies. Steps and Schema come
// from the flow constructors; Handoff, when present, seeds an edit.
type Config struct {
	Steps  []Step
	Schema forms.Schema
	// Overrides replace the built-in validation rule for specific fields.
	Overrides map[string]logic.Rule
	// Handoff is the cross-navigation edit state. It is consumed during
	// construction; the caller must have already removed it from its store.
	Handoff        *EditHandoff
	CurrencySymbol string
	Logger         *zap.Logger
	Metrics        observability.MetricsRegistry
}

// Session is one wizard run: the step state machine, the working form, the
// per-field errors, and the derived targeting values. Sessions are not safe
// for concurrent use; the UI event loop serializes access.
type Session struct {
	steps    []Step
	schema   forms.Schema
	form     *forms.FormState
	step     int
	currency string

	fieldErrors map[string]string
	rootError   string

	snap             *refdata.Snapshot
	targetPopulation int64
	targetLabel      string

	creative bool

	isEdit    bool
	editID    int64
	submitted bool

	overrides map[string]logic.Rule
	listeners []func(Event)
	logger    *zap.Logger
	metrics   observability.MetricsRegistry
}

// NewCampaignSession starts a campaign wizard. Without a handoff the form is
// empty except for the default objective; with one, the projected campaign is
// loaded and submission turns into an update.
func NewCampaignSession(cfg Config) *Session {
	if cfg.Steps == nil {
		cfg.Steps = CampaignSteps()
	}
	if len(cfg.Schema.Names()) == 0 {
		cfg.Schema = forms.CampaignSchema()
	}
	s := newSession(cfg)
	if s.form.Get("objective") == nil {
		s.form.Set("objective", "Banner")
	}
	return s
}

// NewCreativeSession starts a creative wizard.
func NewCreativeSession(cfg Config) *Session {
	if cfg.Steps == nil {
		cfg.Steps = CreativeSteps()
	}
	if len(cfg.Schema.Names()) == 0 {
		cfg.Schema = forms.CreativeSchema()
	}
	s := newSession(cfg)
	s.creative = true
	return s
}

func newSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewMockMetricsRegistry()
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "₹"
	}
	s := &Session{
		steps:       cfg.Steps,
		schema:      cfg.Schema,
		form:        forms.NewFormState(cfg.Schema),
		currency:    cfg.CurrencySymbol,
		fieldErrors: make(map[string]string),
		snap:        refdata.EmptySnapshot(),
		overrides:   cfg.Overrides,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if cfg.Handoff != nil {
		// Explicit consumption of the edit handoff: the form takes its
		// values and the session becomes an update of the stored campaign.
		s.isEdit = true
		s.editID = cfg.Handoff.CampaignID
		s.form.Load(cfg.Handoff.Form)
		s.logger.Info("edit handoff consumed", zap.Int64("campaign_id", s.editID))
	}
	return s
}

// Subscribe registers an observer for session events.
func (s *Session) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify(e Event) {
	for _, fn := range s.listeners {
		fn(e)
	}
}

// SetSnapshot installs a new reference data snapshot, extends the schema with
// one interest field per category, and recomputes the derived values from the
// committed form state.
func (s *Session) SetSnapshot(snap *refdata.Snapshot) {
	if snap == nil {
		snap = refdata.EmptySnapshot()
	}
	s.snap = snap
	categoryIDs := make([]int64, len(snap.InterestCategories))
	for i, cat := range snap.InterestCategories {
		categoryIDs[i] = cat.ID
	}
	s.schema = s.schema.WithInterestFields(categoryIDs)
	s.form.Reschema(s.schema)
	s.refreshDerived()
	s.notify(EventDerivedChanged)
}

func (s *Session) refreshDerived() {
	s.targetLabel = logic.InterestLabel(s.form.IDs("target_type"), s.snap.Interests)
	s.targetPopulation = logic.EstimatePopulation(
		s.form.IDs("location"), s.form.Strings("age"),
		s.snap.Locations, s.snap.Impressions.Age)
}

// ApplyChange commits one field edit and resolves its dependent updates.
// Interest category fields merge into target_type; changes to the location
// or age axis recompute the population estimate using the changed field's
// live selection and the sibling's committed value.
func (s *Session) ApplyChange(field string, raw any) error {
	spec, ok := s.schema.Lookup(field)
	if !ok {
		return ErrUnknownField
	}

	switch {
	case spec.Kind == forms.KindInterest:
		merged := logic.MergeSelection(s.form.IDs("target_type"), forms.ToIDs(raw))
		s.form.Set("target_type", merged)
		s.targetLabel = logic.InterestLabel(merged, s.snap.Interests)
		s.notify(EventDerivedChanged)
	case spec.Axis == forms.AxisLocation:
		live := forms.ToIDs(raw)
		s.targetPopulation = logic.EstimatePopulation(
			live, s.form.Strings("age"),
			s.snap.Locations, s.snap.Impressions.Age)
		s.form.Set(field, live)
		s.notify(EventDerivedChanged)
	case spec.Axis == forms.AxisAge:
		live := forms.ToStrings(raw)
		s.targetPopulation = logic.EstimatePopulation(
			s.form.IDs("location"), live,
			s.snap.Locations, s.snap.Impressions.Age)
		s.form.Set(field, live)
		s.notify(EventDerivedChanged)
	default:
		s.form.Set(field, raw)
	}
	return nil
}

// Advance validates every mandatory field of the current step and moves
// forward only when all pass. Every failing field is reported in one pass;
// on failure the step does not move. Returns whether the step advanced.
func (s *Session) Advance() bool {
	step := s.steps[s.step]
	failures := make(map[string]string)
	for _, field := range step.Mandatory {
		res := logic.Validate(field, s.form.Get(field), s.form.Get, s.overrides)
		if !res.Valid {
			failures[field] = res.Message
			s.metrics.IncrementValidationFailure(field)
		}
	}
	if len(failures) > 0 {
		s.fieldErrors = failures
		s.metrics.IncrementWizardAdvance("blocked")
		return false
	}

	s.fieldErrors = make(map[string]string)
	if s.step >= len(s.steps)-1 {
		return false
	}
	s.step++
	s.metrics.IncrementWizardAdvance("advanced")
	s.notify(EventViewReset)
	s.notify(EventStepChanged)
	return true
}

// Retreat moves back one step, floored at the first. It never validates, so
// users can always go back to fix earlier input.
func (s *Session) Retreat() {
	if s.step > 0 {
		s.step--
		s.notify(EventStepChanged)
	}
	s.notify(EventViewReset)
}

// Submit sends the form through the submitter. On failure the translated
// message becomes the root error and every field keeps its value, so the
// user can retry without re-entering data.
func (s *Session) Submit(ctx context.Context, submitter Submitter) error {
	if submitter == nil {
		return ErrNoSubmitter
	}
	s.rootError = ""
	if err := submitter.Submit(ctx, s.form, s.isEdit, s.editID); err != nil {
		s.rootError = err.Error()
		return err
	}
	s.submitted = true
	return nil
}

// Step returns the current step index.
func (s *Session) Step() int { return s.step }

// Steps returns the wizard's step definitions.
func (s *Session) Steps() []Step { return s.steps }

// CurrentStep returns the current step definition.
func (s *Session) CurrentStep() Step { return s.steps[s.step] }

// MandatoryFields returns the current step's mandatory field names.
func (s *Session) MandatoryFields() []string { return s.steps[s.step].Mandatory }

// AtFinalStep reports whether the session sits on the review step.
func (s *Session) AtFinalStep() bool { return s.step == len(s.steps)-1 }

// FieldErrors returns a copy of the per-field errors from the last blocked
// advance.
func (s *Session) FieldErrors() map[string]string {
	out := make(map[string]string, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

// RootError returns the last submission error message, empty when none.
func (s *Session) RootError() string { return s.rootError }

// Form returns the session's working form state.
func (s *Session) Form() *forms.FormState { return s.form }

// Snapshot returns the reference data the session currently resolves against.
func (s *Session) Snapshot() *refdata.Snapshot { return s.snap }

// TargetPopulation returns the derived audience estimate.
func (s *Session) TargetPopulation() int64 { return s.targetPopulation }

// TotalPopulation returns the impression payload's population scalar.
func (s *Session) TotalPopulation() int64 { return s.snap.TotalPopulation() }

// TargetTypeLabel returns the derived "category>subcategory" label string.
func (s *Session) TargetTypeLabel() string { return s.targetLabel }

// IsEdit reports whether the session updates an existing campaign.
func (s *Session) IsEdit() bool { return s.isEdit }

// EditID returns the campaign being updated, zero for creates.
func (s *Session) EditID() int64 { return s.editID }

// Submitted reports whether the session's form was successfully persisted.
func (s *Session) Submitted() bool { return s.submitted }
