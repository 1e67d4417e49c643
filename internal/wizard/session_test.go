package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/models"
	"github.com/hawkbud003/dsahboard/internal/refdata"
)

func testSnapshot() *refdata.Snapshot {
	return &refdata.Snapshot{
		InterestCategories: []models.SelectOption{
			{ID: 100, Label: "Sports"},
			{ID: 200, Label: "Travel"},
		},
		Locations: []models.Location{
			{ID: 1, City: "Mumbai", Population: 20000},
			{ID: 2, City: "Pune", Population: 7000},
		},
		Interests: []models.Interest{
			{ID: 5, Category: "Sports", Subcategory: "Cricket"},
			{ID: 6, Category: "Sports", Subcategory: "Football"},
			{ID: 9, Category: "Travel", Subcategory: "Adventure"},
		},
		Creatives: []models.Creative{{ID: 11, Name: "Hero Banner"}},
		Impressions: models.ImpressionData{
			TotalPopulation: 100000,
			Age: []models.ImpressionBreakdown{
				{Label: "18-24", Percentage: 12.0},
				{Label: "25-34", Percentage: 18.0},
			},
		},
	}
}

func newTestSession() *Session {
	s := NewCampaignSession(Config{})
	s.SetSnapshot(testSnapshot())
	return s
}

func fillStep(t *testing.T, s *Session, values map[string]any) {
	t.Helper()
	for field, value := range values {
		if err := s.ApplyChange(field, value); err != nil {
			t.Fatalf("apply %s: %v", field, err)
		}
	}
}

func TestNewCampaignSessionDefaults(t *testing.T) {
	s := NewCampaignSession(Config{})
	if s.Step() != 0 {
		t.Fatalf("step = %d", s.Step())
	}
	if got := s.Form().Get("objective"); got != "Banner" {
		t.Fatalf("objective default = %v", got)
	}
	if s.IsEdit() {
		t.Fatal("fresh session must not be an edit")
	}
}

func TestAdvanceBlockedReportsAllFailures(t *testing.T) {
	s := newTestSession()
	if !s.Advance() {
		t.Fatalf("objective step should pass: %v", s.FieldErrors())
	}

	// Step 1 has three mandatory fields, all empty.
	if s.Advance() {
		t.Fatal("details step should block")
	}
	errs := s.FieldErrors()
	if len(errs) != 3 {
		t.Fatalf("want 3 failures in one pass, got %v", errs)
	}
	if errs["name"] != "Name field is required" {
		t.Fatalf("name error = %q", errs["name"])
	}
	if s.Step() != 1 {
		t.Fatalf("blocked advance moved the step to %d", s.Step())
	}
}

func TestAdvanceEmptyNameAndInvertedDates(t *testing.T) {
	s := newTestSession()
	s.Advance()
	fillStep(t, s, map[string]any{
		"name":       "",
		"start_time": "2026-03-10T00:00",
		"end_time":   "2026-03-01T00:00",
	})
	if s.Advance() {
		t.Fatal("should block")
	}
	errs := s.FieldErrors()
	if len(errs) != 2 {
		t.Fatalf("want exactly the two failing fields, got %v", errs)
	}
	if errs["name"] != "Name field is required" {
		t.Fatalf("name error = %q", errs["name"])
	}
	if errs["end_time"] != "End Time should be after start date" {
		t.Fatalf("end_time error = %q", errs["end_time"])
	}
}

func TestAdvanceEndDateMessage(t *testing.T) {
	s := newTestSession()
	s.Advance()
	fillStep(t, s, map[string]any{
		"name":       "Spring Sale",
		"start_time": "2026-03-10T00:00",
		"end_time":   "2026-03-01T00:00",
	})
	if s.Advance() {
		t.Fatal("inverted dates should block")
	}
	if got := s.FieldErrors()["end_time"]; got != "End Time should be after start date" {
		t.Fatalf("end_time error = %q", got)
	}

	fillStep(t, s, map[string]any{"end_time": "2026-03-20T00:00"})
	if !s.Advance() {
		t.Fatalf("corrected dates should pass: %v", s.FieldErrors())
	}
	if len(s.FieldErrors()) != 0 {
		t.Fatalf("errors should clear on success, got %v", s.FieldErrors())
	}
}

func TestRetreatNeverValidates(t *testing.T) {
	s := newTestSession()
	s.Advance()
	if s.Step() != 1 {
		t.Fatalf("step = %d", s.Step())
	}

	var resets int
	s.Subscribe(func(e Event) {
		if e == EventViewReset {
			resets++
		}
	})

	// Nothing on step 1 is filled in; retreat must still work.
	s.Retreat()
	if s.Step() != 0 {
		t.Fatalf("step = %d", s.Step())
	}
	// Floored at the first step, but the view still resets.
	s.Retreat()
	if s.Step() != 0 {
		t.Fatalf("step = %d", s.Step())
	}
	if resets != 2 {
		t.Fatalf("view resets = %d, want 2", resets)
	}
}

func TestAdvanceStopsAtFinalStep(t *testing.T) {
	s := NewCreativeSession(Config{})
	fillStep(t, s, map[string]any{"creative_type": models.CreativeBanner})
	if !s.Advance() {
		t.Fatalf("type step should pass: %v", s.FieldErrors())
	}
	fillStep(t, s, map[string]any{
		"name": "Hero",
		"file": &models.FileRef{Name: "hero.png", Size: 4, Data: []byte("PNG!")},
	})
	if !s.Advance() {
		t.Fatalf("details step should pass: %v", s.FieldErrors())
	}
	if !s.AtFinalStep() {
		t.Fatalf("expected review step, at %d", s.Step())
	}
	if s.Advance() {
		t.Fatal("advance past the final step must not move")
	}
	if !s.AtFinalStep() {
		t.Fatalf("step moved to %d", s.Step())
	}
}

func TestInterestFieldMergesIntoTargetType(t *testing.T) {
	s := newTestSession()

	if err := s.ApplyChange(forms.InterestFieldName(100), []int64{5}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := s.ApplyChange(forms.InterestFieldName(200), []int64{9}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	// Re-selecting in the first category adds without disturbing the rest.
	if err := s.ApplyChange(forms.InterestFieldName(100), []int64{5, 6}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := s.Form().IDs("target_type")
	want := []int64{5, 9, 6}
	if len(got) != len(want) {
		t.Fatalf("target_type = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("target_type = %v, want %v", got, want)
		}
	}
	if s.TargetTypeLabel() != "Sports>Cricket, Travel>Adventure, Sports>Football" {
		t.Fatalf("label = %q", s.TargetTypeLabel())
	}
}

func TestApplyChangeUnknownField(t *testing.T) {
	s := newTestSession()
	if err := s.ApplyChange("no_such_field", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v", err)
	}
}

func TestPopulationRecomputesOnAxisChange(t *testing.T) {
	s := newTestSession()

	fillStep(t, s, map[string]any{"location": []int64{1}})
	if s.TargetPopulation() != 20000 {
		t.Fatalf("population = %d", s.TargetPopulation())
	}

	// Changing the age axis combines the live value with the committed
	// location selection.
	fillStep(t, s, map[string]any{"age": []string{"18-24"}})
	if s.TargetPopulation() != 2400 {
		t.Fatalf("population = %d", s.TargetPopulation())
	}

	// Changing location again uses the committed age selection.
	fillStep(t, s, map[string]any{"location": []int64{1, 2}})
	if s.TargetPopulation() != 3240 {
		t.Fatalf("population = %d", s.TargetPopulation())
	}

	// Clearing the age axis restores the unfiltered base.
	fillStep(t, s, map[string]any{"age": []string{}})
	if s.TargetPopulation() != 27000 {
		t.Fatalf("population = %d", s.TargetPopulation())
	}
}

func TestEditHandoffConsumed(t *testing.T) {
	handoff := &EditHandoff{
		CampaignID: 77,
		Form: map[string]any{
			"name":     "Existing Campaign",
			"location": []any{float64(2)},
		},
	}
	s := NewCampaignSession(Config{Handoff: handoff})
	if !s.IsEdit() || s.EditID() != 77 {
		t.Fatalf("edit state = %v %d", s.IsEdit(), s.EditID())
	}
	if s.Form().Get("name") != "Existing Campaign" {
		t.Fatalf("name = %v", s.Form().Get("name"))
	}
	if ids := s.Form().IDs("location"); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("location = %v", ids)
	}

	// The snapshot arriving later recomputes derived values from the loaded
	// form.
	s.SetSnapshot(testSnapshot())
	if s.TargetPopulation() != 7000 {
		t.Fatalf("population = %d", s.TargetPopulation())
	}
}

type fakeSubmitter struct {
	err      error
	calls    int
	isUpdate bool
	id       int64
}

func (f *fakeSubmitter) Submit(_ context.Context, _ *forms.FormState, isUpdate bool, id int64) error {
	f.calls++
	f.isUpdate = isUpdate
	f.id = id
	return f.err
}

func TestSubmitFailureRetainsState(t *testing.T) {
	s := newTestSession()
	fillStep(t, s, map[string]any{"name": "Keep Me"})

	sub := &fakeSubmitter{err: errors.New("Name field is required")}
	if err := s.Submit(context.Background(), sub); err == nil {
		t.Fatal("expected error")
	}
	if s.RootError() != "Name field is required" {
		t.Fatalf("root error = %q", s.RootError())
	}
	if s.Form().Get("name") != "Keep Me" {
		t.Fatal("field values must survive a failed submit")
	}
	if s.Submitted() {
		t.Fatal("failed submit must not mark the session submitted")
	}

	// Retry succeeds and clears the root error.
	sub.err = nil
	if err := s.Submit(context.Background(), sub); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.RootError() != "" {
		t.Fatalf("root error = %q", s.RootError())
	}
	if !s.Submitted() {
		t.Fatal("session should be submitted")
	}
	if sub.calls != 2 {
		t.Fatalf("calls = %d", sub.calls)
	}
}

func TestSubmitPassesEditIdentity(t *testing.T) {
	s := NewCampaignSession(Config{Handoff: &EditHandoff{CampaignID: 31, Form: map[string]any{}}})
	sub := &fakeSubmitter{}
	if err := s.Submit(context.Background(), sub); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.isUpdate || sub.id != 31 {
		t.Fatalf("submitter got isUpdate=%v id=%d", sub.isUpdate, sub.id)
	}
}

func TestSubmitNilSubmitter(t *testing.T) {
	s := newTestSession()
	if err := s.Submit(context.Background(), nil); !errors.Is(err, ErrNoSubmitter) {
		t.Fatalf("err = %v", err)
	}
}
