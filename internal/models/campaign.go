package models

// Campaign is the wire representation of an advertising campaign as returned
// by the management backend. Nested reference objects (Location, Interest,
// Creative) are projected down to flat ID arrays by the forms package before
// the wizard edits them.
type Campaign struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Objective   string     `json:"objective"`
	Age         []string   `json:"age"`
	Device      []string   `json:"device"`
	Environment []string   `json:"environment"`
	Exchange    []string   `json:"exchange"`
	Language    []string   `json:"language"`
	Carrier     []string   `json:"carrier"`
	DevicePrice []string   `json:"device_price"`
	Location    []Location `json:"location"`
	TargetType  []Interest `json:"target_type"`
	Creative    []Creative `json:"creative"`
	LandingPage string     `json:"landing_page"`
	TotalBudget float64    `json:"total_budget"`
	BuyType     string     `json:"buy_type"`
	UnitRate    float64    `json:"unit_rate"`
	Viewability float64    `json:"viewability"`
	BrandSafety float64    `json:"brand_safety"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      string     `json:"status"`

	// Reporting fields, read-only on this side.
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	Views       string `json:"views"`
	CTR         string `json:"ctr"`
	VTR         string `json:"vtr"`
	PayRate     string `json:"pay_rate"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	User          *User        `json:"user,omitempty"`
	CampaignFiles []FileUpload `json:"campaign_files,omitempty"`
}

// FileUpload is a file resource already attached to a campaign on the backend.
type FileUpload struct {
	ID   int64  `json:"id"`
	File string `json:"file"`
}
