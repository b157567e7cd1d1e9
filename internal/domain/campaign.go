package domain

import "time"

// Campaign is the top-level grouping of categories and tasks.
type Campaign struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Category groups tasks within a campaign.
type Category struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CampaignID string    `json:"campaignId"`
	CreatedAt  time.Time `json:"createdAt"`
}
