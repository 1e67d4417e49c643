package forms

import (
	"github.com/hawkbud003/dsahboard/internal/logic"
	"github.com/hawkbud003/dsahboard/internal/models"
)

// FormState is the mutable working record of a campaign or creative being
// created or edited. Values are keyed by field name and normalized on write
// according to the schema's field kind: multi-select fields always hold a
// slice, never nil.
type FormState struct {
	schema Schema
	values map[string]any
}

// NewFormState creates an empty form for the given schema.
func NewFormState(schema Schema) *FormState {
	return &FormState{schema: schema, values: make(map[string]any)}
}

// Schema returns the form's field schema.
func (f *FormState) Schema() Schema { return f.schema }

// Reschema replaces the form's schema, e.g. once interest categories load
// and the per-category fields exist.
func (f *FormState) Reschema(schema Schema) { f.schema = schema }

// Set writes one field value, normalizing it per the field's kind. Fields
// outside the schema are stored untouched; the wire projection drops them.
func (f *FormState) Set(field string, value any) {
	spec, ok := f.schema.Lookup(field)
	if !ok {
		f.values[field] = value
		return
	}
	switch spec.Kind {
	case KindIDList, KindInterest:
		f.values[field] = ToIDs(value)
	case KindStringList:
		f.values[field] = ToStrings(value)
	case KindNumeric:
		if n, ok := logic.ToFloat(value); ok {
			f.values[field] = n
		} else {
			f.values[field] = value
		}
	default:
		f.values[field] = value
	}
}

// Get returns the committed value of a field, or nil when unset.
func (f *FormState) Get(field string) any {
	return f.values[field]
}

// IDs returns a multi-select ID field's value. Unset fields read as an empty
// selection.
func (f *FormState) IDs(field string) []int64 {
	if v, ok := f.values[field]; ok {
		return ToIDs(v)
	}
	return []int64{}
}

// Strings returns a multi-select string field's value. Unset fields read as
// an empty selection.
func (f *FormState) Strings(field string) []string {
	if v, ok := f.values[field]; ok {
		return ToStrings(v)
	}
	return []string{}
}

// Number returns a numeric field's value.
func (f *FormState) Number(field string) (float64, bool) {
	return logic.ToFloat(f.values[field])
}

// File returns a file field's reference, or nil.
func (f *FormState) File(field string) *models.FileRef {
	ref, _ := f.values[field].(*models.FileRef)
	return ref
}

// HasFile reports whether any file-kind field holds an actual file. The
// submit encoder switches to multipart when it does.
func (f *FormState) HasFile() bool {
	for _, name := range f.schema.Names() {
		spec, _ := f.schema.Lookup(name)
		if spec.Kind == KindFile && !f.File(name).Empty() {
			return true
		}
	}
	return false
}

// Load replaces the form's values with a decoded snapshot, e.g. a consumed
// edit handoff. Each field passes through Set so JSON-decoded slices regain
// their schema types.
func (f *FormState) Load(values map[string]any) {
	f.values = make(map[string]any, len(values))
	for field, value := range values {
		f.Set(field, value)
	}
}

// Values returns a copy of the committed field values.
func (f *FormState) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// ToIDs normalizes the shapes a reference-ID selection can arrive in:
// typed slices from code, []any of float64 from JSON decoding.
func ToIDs(value any) []int64 {
	switch v := value.(type) {
	case nil:
		return []int64{}
	case []int64:
		out := make([]int64, len(v))
		copy(out, v)
		return out
	case []int:
		out := make([]int64, len(v))
		for i, id := range v {
			out[i] = int64(id)
		}
		return out
	case []float64:
		out := make([]int64, len(v))
		for i, id := range v {
			out[i] = int64(id)
		}
		return out
	case []any:
		out := make([]int64, 0, len(v))
		for _, raw := range v {
			if f, ok := logic.ToFloat(raw); ok {
				out = append(out, int64(f))
			}
		}
		return out
	}
	return []int64{}
}

// ToStrings normalizes a string multi-select value.
func ToStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, raw := range v {
			if s, ok := raw.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
