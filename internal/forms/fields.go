// Package forms holds the wizard's working form state: the field schema with
// tagged field kinds, the mutable FormState, and the wire<->form transformer.
package forms

import (
	"fmt"
	"sort"
)

// FieldKind tags how a field's value is typed, validated and serialized.
type FieldKind int

const (
	// KindText is a plain scalar string.
	KindText FieldKind = iota
	// KindNumeric must parse to a positive finite number.
	KindNumeric
	// KindDate is a scalar date value.
	KindDate
	// KindEndDate is the designated end date, validated against start_time.
	KindEndDate
	// KindFile holds an uploaded file reference.
	KindFile
	// KindStringList is a multi-select of opaque string values.
	KindStringList
	// KindIDList is a multi-select of numeric reference IDs.
	KindIDList
	// KindInterest is the per-category interest sub-select. One virtual field
	// exists per interest category, parameterized by Category; all of them
	// merge into the flat target_type field.
	KindInterest
)

// Axis marks the two audience fields whose changes drive the population
// estimate. All other fields carry AxisNone.
type Axis int

const (
	AxisNone Axis = iota
	AxisLocation
	AxisAge
)

// FieldSpec describes one editable field of a wizard schema.
type FieldSpec struct {
	Name string
	Kind FieldKind
	// Axis is set on the location and age fields only.
	Axis Axis
	// Category is the interest category ID, KindInterest fields only.
	Category int64
}

// Schema is the set of fields a wizard can edit. Fields outside the schema
// are dropped by the wire projection and rejected by field updates.
type Schema struct {
	fields map[string]FieldSpec
	order  []string
}

// NewSchema builds a schema from specs in display order.
func NewSchema(specs ...FieldSpec) Schema {
	s := Schema{fields: make(map[string]FieldSpec, len(specs))}
	for _, spec := range specs {
		if _, dup := s.fields[spec.Name]; dup {
			continue
		}
		s.fields[spec.Name] = spec
		s.order = append(s.order, spec.Name)
	}
	return s
}

// Lookup returns the spec for a field name.
func (s Schema) Lookup(name string) (FieldSpec, bool) {
	spec, ok := s.fields[name]
	return spec, ok
}

// Names returns the schema's field names in display order.
func (s Schema) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// InterestFieldName builds the virtual field name for one interest category.
func InterestFieldName(categoryID int64) string {
	return fmt.Sprintf("target_type_%d", categoryID)
}

// WithInterestFields returns a copy of the schema extended with one
// KindInterest field per category ID. Categories already registered are kept.
func (s Schema) WithInterestFields(categoryIDs []int64) Schema {
	specs := make([]FieldSpec, 0, len(s.order)+len(categoryIDs))
	for _, name := range s.order {
		specs = append(specs, s.fields[name])
	}
	sorted := make([]int64, len(categoryIDs))
	copy(sorted, categoryIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		specs = append(specs, FieldSpec{Name: InterestFieldName(id), Kind: KindInterest, Category: id})
	}
	return NewSchema(specs...)
}

// CampaignSchema is the field set of the campaign wizard.
func CampaignSchema() Schema {
	return NewSchema(
		FieldSpec{Name: "objective", Kind: KindText},
		FieldSpec{Name: "name", Kind: KindText},
		FieldSpec{Name: "start_time", Kind: KindDate},
		FieldSpec{Name: "end_time", Kind: KindEndDate},
		FieldSpec{Name: "location", Kind: KindIDList, Axis: AxisLocation},
		FieldSpec{Name: "age", Kind: KindStringList, Axis: AxisAge},
		FieldSpec{Name: "exchange", Kind: KindStringList},
		FieldSpec{Name: "language", Kind: KindStringList},
		FieldSpec{Name: "viewability", Kind: KindNumeric},
		FieldSpec{Name: "brand_safety", Kind: KindNumeric},
		FieldSpec{Name: "device", Kind: KindStringList},
		FieldSpec{Name: "environment", Kind: KindStringList},
		FieldSpec{Name: "carrier", Kind: KindStringList},
		FieldSpec{Name: "device_price", Kind: KindStringList},
		FieldSpec{Name: "target_type", Kind: KindIDList},
		FieldSpec{Name: "creative", Kind: KindIDList},
		FieldSpec{Name: "total_budget", Kind: KindNumeric},
		FieldSpec{Name: "buy_type", Kind: KindText},
		FieldSpec{Name: "unit_rate", Kind: KindNumeric},
		FieldSpec{Name: "landing_page", Kind: KindText},
		FieldSpec{Name: "user", Kind: KindText},
	)
}

// CreativeSchema is the field set of the creative wizard.
func CreativeSchema() Schema {
	return NewSchema(
		FieldSpec{Name: "creative_type", Kind: KindText},
		FieldSpec{Name: "name", Kind: KindText},
		FieldSpec{Name: "description", Kind: KindText},
		FieldSpec{Name: "file", Kind: KindFile},
	)
}
