package forms

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFormStateSetNormalizes(t *testing.T) {
	f := NewFormState(CampaignSchema())

	// JSON-decoded slices come back typed.
	f.Set("location", []any{float64(1), float64(2)})
	if !reflect.DeepEqual(f.IDs("location"), []int64{1, 2}) {
		t.Fatalf("location = %v", f.IDs("location"))
	}

	f.Set("age", []any{"18-24"})
	if !reflect.DeepEqual(f.Strings("age"), []string{"18-24"}) {
		t.Fatalf("age = %v", f.Strings("age"))
	}

	f.Set("total_budget", "999")
	if n, ok := f.Number("total_budget"); !ok || n != 999 {
		t.Fatalf("total_budget = %v %v", n, ok)
	}
}

func TestFormStateUnsetReads(t *testing.T) {
	f := NewFormState(CampaignSchema())
	if ids := f.IDs("location"); ids == nil || len(ids) != 0 {
		t.Fatalf("unset ID field should read as empty selection, got %v", ids)
	}
	if ss := f.Strings("age"); ss == nil || len(ss) != 0 {
		t.Fatalf("unset string field should read as empty selection, got %v", ss)
	}
	if f.Get("name") != nil {
		t.Fatal("unset scalar should read as nil")
	}
}

func TestFormStateLoadRoundTrip(t *testing.T) {
	f := NewFormState(CampaignSchema())
	f.Set("name", "Edit Me")
	f.Set("location", []int64{4})
	f.Set("unit_rate", 2.5)

	// Simulate a handoff: values survive a JSON round trip and reload with
	// their schema types intact.
	blob, err := json.Marshal(f.Values())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	g := NewFormState(CampaignSchema())
	g.Load(decoded)
	if g.Get("name") != "Edit Me" {
		t.Fatalf("name = %v", g.Get("name"))
	}
	if !reflect.DeepEqual(g.IDs("location"), []int64{4}) {
		t.Fatalf("location = %v", g.IDs("location"))
	}
	if n, _ := g.Number("unit_rate"); n != 2.5 {
		t.Fatalf("unit_rate = %v", n)
	}
}

func TestSchemaWithInterestFields(t *testing.T) {
	s := CampaignSchema().WithInterestFields([]int64{30, 10, 20})

	spec, ok := s.Lookup(InterestFieldName(10))
	if !ok || spec.Kind != KindInterest || spec.Category != 10 {
		t.Fatalf("missing or wrong interest field: %+v %v", spec, ok)
	}

	// Category fields append in sorted order after the base fields.
	names := s.Names()
	tail := names[len(names)-3:]
	want := []string{InterestFieldName(10), InterestFieldName(20), InterestFieldName(30)}
	if !reflect.DeepEqual(tail, want) {
		t.Fatalf("tail = %v, want %v", tail, want)
	}
}

func TestSchemaDuplicateFieldsIgnored(t *testing.T) {
	s := NewSchema(
		FieldSpec{Name: "name", Kind: KindText},
		FieldSpec{Name: "name", Kind: KindNumeric},
	)
	spec, _ := s.Lookup("name")
	if spec.Kind != KindText {
		t.Fatal("first registration should win")
	}
	if len(s.Names()) != 1 {
		t.Fatalf("names = %v", s.Names())
	}
}
