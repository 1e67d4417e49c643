package logic

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hawkbud003/dsahboard/internal/models"
)

// ValueFunc reads a sibling field's committed value, used by rules that
// depend on another field (end date vs. start date).
type ValueFunc func(field string) any

// Rule is a single validation predicate plus the message suffix appended to
// the field's display name when the predicate fails.
type Rule struct {
	Validate func(value any, sibling ValueFunc) bool
	Message  string
}

// Result is the outcome of validating one field. Message is empty when the
// value is valid.
type Result struct {
	Valid   bool
	Message string
}

// Field names carrying special rules. The start-date sibling is fixed by the
// campaign schema.
const (
	fieldStartTime = "start_time"
	fieldEndTime   = "end_time"
	fieldFile      = "file"
)

var numericFields = map[string]bool{
	"total_budget": true,
	"unit_rate":    true,
}

var (
	requiredRule = Rule{
		Validate: func(value any, _ ValueFunc) bool { return present(value) },
		Message:  "field is required",
	}
	numericRule = Rule{
		Validate: func(value any, _ ValueFunc) bool {
			f, ok := ToFloat(value)
			return ok && !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
		},
		Message: "must be a positive number",
	}
	fileRule = Rule{
		Validate: func(value any, _ ValueFunc) bool {
			ref, ok := value.(*models.FileRef)
			return ok && !ref.Empty()
		},
		Message: "is required",
	}
	endDateRule = Rule{
		Validate: func(value any, sibling ValueFunc) bool {
			if sibling == nil {
				return false
			}
			start, ok := ParseDate(sibling(fieldStartTime))
			if !ok {
				return false
			}
			end, ok := ParseDate(value)
			if !ok {
				return false
			}
			return end.After(start)
		},
		Message: "should be after start date",
	}
)

// Validate runs the rule for one field against its value. Rule selection, in
// priority order: a caller-supplied override for the field, the numeric rule
// for budget-like fields, the end-date rule, the file rule, and finally the
// default required rule. The function is pure; callers record failures.
func Validate(field string, value any, sibling ValueFunc, overrides map[string]Rule) Result {
	rule := requiredRule
	switch {
	case numericFields[field]:
		rule = numericRule
	case field == fieldEndTime:
		rule = endDateRule
	case field == fieldFile:
		rule = fileRule
	}
	if override, ok := overrides[field]; ok {
		rule = override
	}

	if rule.Validate(value, sibling) {
		return Result{Valid: true}
	}
	return Result{Valid: false, Message: FieldLabel(field) + " " + rule.Message}
}

// FieldLabel derives the display name of a field: underscores become spaces
// and each word is title-cased.
func FieldLabel(field string) string {
	return FormatProperCase(strings.ReplaceAll(field, "_", " "))
}

// present implements the default required rule: defined, non-empty string
// and, for slices, at least one element.
func present(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return v != ""
	case *models.FileRef:
		return !v.Empty()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// ToFloat converts the numeric shapes a form value can arrive in. JSON
// decoding yields float64; handoff snapshots and raw input may carry ints,
// json.Number or strings.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// dateLayouts are tried in order when a date arrives as a string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate interprets a form date value. Strings are tried against the known
// layouts; numbers are epoch milliseconds.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		if v == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int64:
		return time.UnixMilli(v), v != 0
	case float64:
		return time.UnixMilli(int64(v)), v != 0
	}
	return time.Time{}, false
}
