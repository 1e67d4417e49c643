package forms

import (
	"github.com/hawkbud003/dsahboard/internal/logic"
	"github.com/hawkbud003/dsahboard/internal/models"
)

// WireToForm projects a wire document onto the flat form representation the
// wizard edits. Nested reference objects collapse to their IDs, scalars pass
// through, and fields absent from the schema are dropped. The projection is
// total over the schema and idempotent: re-projecting an already-projected
// document yields the same result.
func WireToForm(doc map[string]any, schema Schema) map[string]any {
	form := make(map[string]any, len(doc))
	for _, name := range schema.Names() {
		raw, ok := doc[name]
		if !ok || raw == nil {
			continue
		}
		spec, _ := schema.Lookup(name)
		switch spec.Kind {
		case KindIDList:
			form[name] = projectIDs(raw)
		case KindStringList:
			form[name] = ToStrings(raw)
		case KindNumeric:
			if f, ok := logic.ToFloat(raw); ok {
				form[name] = f
			}
		case KindFile:
			// File fields never round-trip from the wire; uploads create
			// separate resources.
		default:
			form[name] = raw
		}
	}
	return form
}

// FormToWire serializes form state for submission: IDs stay flat arrays and
// numeric fields are numbers, not strings. The backend accepts this shape
// directly.
func FormToWire(f *FormState) map[string]any {
	wire := make(map[string]any)
	for field, value := range f.Values() {
		spec, ok := f.schema.Lookup(field)
		if !ok {
			continue
		}
		switch spec.Kind {
		case KindInterest:
			// Virtual per-category fields already merged into target_type.
		case KindFile:
			// Files travel as multipart entries, not JSON values.
		case KindNumeric:
			if n, ok := logic.ToFloat(value); ok {
				wire[field] = n
			}
		default:
			wire[field] = value
		}
	}
	return wire
}

// CampaignToForm flattens a campaign wire object for edit mode.
func CampaignToForm(c models.Campaign, schema Schema) map[string]any {
	doc := map[string]any{
		"name":         c.Name,
		"objective":    c.Objective,
		"age":          c.Age,
		"device":       c.Device,
		"environment":  c.Environment,
		"exchange":     c.Exchange,
		"language":     c.Language,
		"carrier":      c.Carrier,
		"device_price": c.DevicePrice,
		"location":     locationIDs(c.Location),
		"target_type":  interestIDs(c.TargetType),
		"creative":     creativeIDs(c.Creative),
		"landing_page": c.LandingPage,
		"total_budget": c.TotalBudget,
		"buy_type":     c.BuyType,
		"unit_rate":    c.UnitRate,
		"viewability":  c.Viewability,
		"brand_safety": c.BrandSafety,
		"start_time":   c.StartTime,
		"end_time":     c.EndTime,
	}
	return WireToForm(doc, schema)
}

// projectIDs accepts either bare IDs or nested objects carrying an "id" key,
// so a once-projected document projects to itself.
func projectIDs(raw any) []int64 {
	items, ok := raw.([]any)
	if !ok {
		return ToIDs(raw)
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			if f, ok := logic.ToFloat(v["id"]); ok {
				ids = append(ids, int64(f))
			}
		default:
			if f, ok := logic.ToFloat(v); ok {
				ids = append(ids, int64(f))
			}
		}
	}
	return ids
}

func locationIDs(locs []models.Location) []int64 {
	ids := make([]int64, len(locs))
	for i, l := range locs {
		ids[i] = l.ID
	}
	return ids
}

func interestIDs(ins []models.Interest) []int64 {
	ids := make([]int64, len(ins))
	for i, in := range ins {
		ids[i] = in.ID
	}
	return ids
}

func creativeIDs(cs []models.Creative) []int64 {
	ids := make([]int64, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
