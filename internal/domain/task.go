package domain

type TaskStatus string

const (
	TaskDraft     TaskStatus = "draft"
	TaskPublished TaskStatus = "published"
)

// Task is a unit of work with a point reward. CampaignID is denormalized from
// the owning category for query convenience; every write path re-derives it
// from CategoryID so the two cannot disagree.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details"`
	Image      string     `json:"image"`
	Points     int        `json:"points"`
	Status     TaskStatus `json:"status"`
	CategoryID string     `json:"categoryId"`
	CampaignID string     `json:"campaignId"`
}
