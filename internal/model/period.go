package model

import "time"

// Period is a calendar-month bucket grouping items. Exactly one period
// exists per month key; it is lazily created on first access.
type Period struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
