package domain

import "time"

// Update is a simple admin-authored announcement with no relations.
type Update struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}
