package wizard

// EditHandoff carries an in-progress edit across navigation: the campaign
// being edited plus its projected form snapshot. It is plain JSON so it can
// live in a short-lived store between the table page and the wizard page.
// Consuming it is an explicit step of session construction; the store must
// hand it out exactly once.
type EditHandoff struct {
	CampaignID int64          `json:"campaign_id"`
	Form       map[string]any `json:"form"`
}
