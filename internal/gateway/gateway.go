// Package gateway is the data-store boundary of the application: every
// persisted read or write the session engine performs goes through the Store
// interface. The session treats it as a remote service — responses are
// authoritative and replace local state wholesale.
package gateway

import (
	"context"
	"time"

	"listinha/internal/model"
)

// Capabilities describes optional schema features, resolved once when the
// store is constructed and injected rather than probed per call.
type Capabilities struct {
	// SoftDelete is true when the items schema carries tombstone columns.
	// When false, all delete operations are hard deletes.
	SoftDelete bool
}

// NewItem carries the caller-controlled fields of a create; the store assigns
// id and timestamps.
type NewItem struct {
	PeriodID      string
	Name          string
	Quantity      float64
	UnitPrice     float64
	Category      string
	Status        model.Status
	CreatedByName string
}

// ItemPatch is a partial update: nil fields are left untouched.
type ItemPatch struct {
	Name      *string
	Quantity  *float64
	UnitPrice *float64
	Category  *string
	Status    *model.Status
}

// Empty reports whether the patch would change nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Quantity == nil && p.UnitPrice == nil &&
		p.Category == nil && p.Status == nil
}

// TotalRowsQuery result entry, see Store.ListItemTotalsAcrossPeriods.
type ItemTotal struct {
	PeriodID  string
	Quantity  float64
	UnitPrice float64
	Category  string
}

type Store interface {
	// GetOrCreatePeriod returns the period covering the month that starts
	// at monthStart, creating it on first access.
	GetOrCreatePeriod(ctx context.Context, monthStart time.Time) (*model.Period, error)

	// ListRecentPeriods returns up to limit periods ordered by start date
	// descending.
	ListRecentPeriods(ctx context.Context, limit int) ([]model.Period, error)

	// ListItems returns the period's live (non-tombstoned) items, newest
	// first.
	ListItems(ctx context.Context, periodID string) ([]model.Item, error)

	CreateItem(ctx context.Context, fields NewItem) (*model.Item, error)

	// UpdateItem applies a partial patch and returns the full updated
	// record. Returns nil when the item does not exist.
	UpdateItem(ctx context.Context, id string, patch ItemPatch) (*model.Item, error)

	// DeleteItem tombstones the item when the store supports soft delete,
	// otherwise removes it.
	DeleteItem(ctx context.Context, id, deletedByName string) error

	ZeroAllPrices(ctx context.Context, periodID string) error
	DeleteAllInPeriod(ctx context.Context, periodID, deletedByName string) error
	RestoreAllInPeriod(ctx context.Context, periodID string) (int64, error)
	CountSoftDeleted(ctx context.Context, periodID string) (int, error)

	// CopyAllItems copies the source period's live items into the target
	// period as pending items credited to createdByName; returns the count.
	CopyAllItems(ctx context.Context, fromPeriodID, toPeriodID, createdByName string) (int, error)

	// ListItemTotalsAcrossPeriods fetches the fields needed to total items
	// for a set of periods in one call.
	ListItemTotalsAcrossPeriods(ctx context.Context, periodIDs []string) ([]ItemTotal, error)

	Capabilities() Capabilities
}
