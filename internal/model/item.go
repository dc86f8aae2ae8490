package model

import "time"

// Status is the purchase state of a shopping-list item.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusBought  Status = "BOUGHT"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusBought
}

// CategoryBehavior decides how an item's total is computed. It is resolved
// once, when the record is materialized, and carried on the item instead of
// being re-derived from the category string at every computation site.
type CategoryBehavior int

const (
	// UnitPriced items are worth quantity times unit price.
	UnitPriced CategoryBehavior = iota
	// WeightPriced items carry a fixed lot cost in the unit price; the
	// quantity (in kilograms) is informational only.
	WeightPriced
)

type Item struct {
	ID            string           `json:"id"`
	PeriodID      string           `json:"period_id"`
	Name          string           `json:"name"`
	Quantity      float64          `json:"quantity"`
	UnitPrice     float64          `json:"unit_price"`
	Category      string           `json:"category"`
	Behavior      CategoryBehavior `json:"-"`
	Status        Status           `json:"status"`
	CreatedByName string           `json:"created_by_name"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
	DeletedByName string           `json:"deleted_by_name,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Total is the monetary value attributed to the item. Weight-priced items
// (Churrasco) are bought as a lot: the unit price already is the total.
func (it Item) Total() float64 {
	if it.Behavior == WeightPriced {
		return it.UnitPrice
	}
	return it.Quantity * it.UnitPrice
}
