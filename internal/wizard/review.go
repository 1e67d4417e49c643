package wizard

import (
	"strconv"

	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/logic"
)

// ReviewRow is one formatted line of the review step.
type ReviewRow struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

const (
	notProvided  = "Not provided"
	fileUploaded = "File uploaded"
	fileSelected = "File selected"
)

// ReviewRows formats the committed form for the review step: reference IDs
// resolve to names against the snapshot, dates normalize to YYYY-MM-DD,
// money fields carry the currency symbol and file fields report presence
// only. Unset fields read "Not provided".
func (s *Session) ReviewRows() []ReviewRow {
	rows := make([]ReviewRow, 0, len(s.schema.Names()))
	for _, name := range s.schema.Names() {
		spec, _ := s.schema.Lookup(name)
		if spec.Kind == forms.KindInterest {
			continue
		}
		rows = append(rows, ReviewRow{
			Field: name,
			Label: logic.FieldLabel(name),
			Value: s.reviewValue(name, spec),
		})
	}
	return rows
}

func (s *Session) reviewValue(name string, spec forms.FieldSpec) string {
	value := s.form.Get(name)
	if value == nil {
		return notProvided
	}

	switch name {
	case "location":
		return nonEmpty(logic.LocationLabel(s.form.IDs(name), s.snap.Locations))
	case "target_type":
		return nonEmpty(logic.InterestLabel(s.form.IDs(name), s.snap.Interests))
	case "creative":
		return nonEmpty(logic.CreativeLabel(s.form.IDs(name), s.snap.Creatives))
	case "total_budget", "unit_rate":
		if n, ok := s.form.Number(name); ok {
			return s.currency + strconv.FormatFloat(n, 'f', -1, 64)
		}
		return notProvided
	}

	switch spec.Kind {
	case forms.KindDate, forms.KindEndDate:
		if t, ok := logic.ParseDate(value); ok {
			return t.Format("2006-01-02")
		}
		return notProvided
	case forms.KindFile:
		if !s.form.File(name).Empty() {
			// The creative review reads "selected", campaigns "uploaded".
			if s.creative {
				return fileSelected
			}
			return fileUploaded
		}
		return notProvided
	case forms.KindStringList:
		items := s.form.Strings(name)
		if len(items) == 0 {
			return notProvided
		}
		out := items[0]
		for _, item := range items[1:] {
			out += ", " + item
		}
		return out
	case forms.KindNumeric:
		if n, ok := s.form.Number(name); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return notProvided
	default:
		if str, ok := value.(string); ok && str != "" {
			return str
		}
		return notProvided
	}
}

func nonEmpty(label string) string {
	if label == "" {
		return notProvided
	}
	return label
}
