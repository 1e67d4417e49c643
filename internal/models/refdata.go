package models

// SelectOption is a generic reference item used to populate select inputs.
// Depending on the list, the backend fills Label, Value or both.
type SelectOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
}

// Text returns the human-readable form of the option, preferring Label.
func (o SelectOption) Text() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// Location is a targetable geography with its addressable population.
type Location struct {
	ID         int64  `json:"id"`
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Tier       string `json:"tier"`
	Population int64  `json:"population"`
}

// Interest is one entry of the two-level audience interest taxonomy. Many
// interests share a Category; each Subcategory has its own ID.
type Interest struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// ImpressionBreakdown is one labelled slice of the impression base data,
// e.g. the share of population in the "18-24" age bracket.
type ImpressionBreakdown struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// ImpressionData is the population base payload. TotalPopulation feeds the
// population estimator; the per-axis breakdowns feed the dashboard panels.
type ImpressionData struct {
	TotalPopulation int64                 `json:"totalPopulation"`
	Age             []ImpressionBreakdown `json:"age,omitempty"`
	Device          []ImpressionBreakdown `json:"device,omitempty"`
	Environment     []ImpressionBreakdown `json:"environment,omitempty"`
	Carrier         []ImpressionBreakdown `json:"carrier,omitempty"`
}

// User is a console account. The full user list is only visible to admins.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	UserType    string `json:"usertype"`
	CompanyName string `json:"company_name,omitempty"`
}
