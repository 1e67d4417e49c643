// Package wizard implements the multi-step creation/edit flows: the step
// controller with validation-gated advancement, the dependent-selection
// resolver, and the derived population estimate and interest label.
package wizard

// Step is one section of a wizard. Advancing past it requires every
// mandatory field to pass validation; step indices are contiguous from 0.
type Step struct {
	Index     int
	Name      string
	Mandatory []string
}

// CampaignSteps returns the campaign wizard's step definitions. The review
// step has no mandatory fields; submission happens from it via a separate
// action.
func CampaignSteps() []Step {
	return []Step{
		{Index: 0, Name: "Campaign Type", Mandatory: []string{"objective"}},
		{Index: 1, Name: "Campaign Details", Mandatory: []string{"name", "start_time", "end_time"}},
		{Index: 2, Name: "Targeting", Mandatory: []string{
			"location", "age", "exchange", "language", "viewability",
			"brand_safety", "device", "environment", "carrier", "device_price",
		}},
		{Index: 3, Name: "Interest", Mandatory: []string{"target_type"}},
		{Index: 4, Name: "Budget", Mandatory: []string{"creative", "total_budget", "buy_type", "unit_rate"}},
		{Index: 5, Name: "Review", Mandatory: nil},
	}
}

// CreativeSteps returns the creative wizard's step definitions.
func CreativeSteps() []Step {
	return []Step{
		{Index: 0, Name: "Creative Type", Mandatory: []string{"creative_type"}},
		{Index: 1, Name: "Creative Details", Mandatory: []string{"name", "file"}},
		{Index: 2, Name: "Review", Mandatory: nil},
	}
}
