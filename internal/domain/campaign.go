package domain

import "time"

// Campaign represents a marketing campaign. Type is the free-text category
// used as the grouping key for all attribution rollups.
type Campaign struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	Cost      float64   `json:"cost" db:"cost"`
	StartDate time.Time `json:"start_date" db:"start_date"`
}

// Touch associates one campaign with one opportunity. An opportunity may
// have many touches across many campaigns; a campaign may touch many
// opportunities.
type Touch struct {
	CampaignID    string    `json:"campaign_id" db:"campaign_id"`
	OpportunityID string    `json:"opportunity_id" db:"opportunity_id"`
	Attendees     *int      `json:"attendees" db:"attendees"`
	TouchDate     time.Time `json:"touch_date" db:"touch_date"`
}

// AttendeeCount returns the attendee count, 0 when unrecorded.
func (t *Touch) AttendeeCount() int {
	if t.Attendees == nil {
		return 0
	}
	return *t.Attendees
}
