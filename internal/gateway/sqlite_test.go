package gateway

import (
	"context"
	"testing"
	"time"

	"listinha/internal/database"
	"listinha/internal/model"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func march() time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func mustPeriod(t *testing.T, s *SQLiteStore) *model.Period {
	t.Helper()
	p, err := s.GetOrCreatePeriod(context.Background(), march())
	if err != nil {
		t.Fatalf("get or create period: %v", err)
	}
	return p
}

func mustItem(t *testing.T, s *SQLiteStore, periodID, name string, qty, price float64) *model.Item {
	t.Helper()
	it, err := s.CreateItem(context.Background(), NewItem{
		PeriodID:      periodID,
		Name:          name,
		Quantity:      qty,
		UnitPrice:     price,
		Category:      "Geral",
		Status:        model.StatusPending,
		CreatedByName: "Ana",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return it
}

func TestCapabilityProbe(t *testing.T) {
	s := setupTestStore(t)
	if !s.Capabilities().SoftDelete {
		t.Error("migrated schema should report soft-delete capability")
	}
}

func TestCapabilityProbeWithoutTombstoneColumns(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// Simulate an old deployment whose items table predates the tombstone
	// migration.
	if _, err := db.Exec(`DROP INDEX idx_items_deleted`); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	if _, err := db.Exec(`ALTER TABLE items DROP COLUMN deleted_at`); err != nil {
		t.Fatalf("drop deleted_at: %v", err)
	}
	if _, err := db.Exec(`ALTER TABLE items DROP COLUMN deleted_by_name`); err != nil {
		t.Fatalf("drop deleted_by_name: %v", err)
	}

	s := NewSQLiteStore(db)
	if s.Capabilities().SoftDelete {
		t.Error("schema without tombstone columns should not report soft delete")
	}

	p := mustPeriod(t, s)
	it := mustItem(t, s, p.ID, "Leite", 1, 5)
	if err := s.DeleteItem(context.Background(), it.ID, "Ana"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items, err := s.ListItems(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("hard delete left %d items", len(items))
	}
	count, err := s.CountSoftDeleted(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("count soft deleted: %v", err)
	}
	if count != 0 {
		t.Errorf("soft-deleted count = %d, want 0", count)
	}
}

func TestGetOrCreatePeriodIdempotent(t *testing.T) {
	s := setupTestStore(t)
	first := mustPeriod(t, s)
	second := mustPeriod(t, s)
	if first.ID != second.ID {
		t.Errorf("expected one period, got ids %q and %q", first.ID, second.ID)
	}
	if first.Name != "Março/2026" {
		t.Errorf("period name = %q, want Março/2026", first.Name)
	}
	if got := first.StartDate; !got.Equal(march()) {
		t.Errorf("start date = %v", got)
	}
	if got := first.EndDate; !got.Equal(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end date = %v", got)
	}
}

func TestListRecentPeriods(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for m := time.January; m <= time.April; m++ {
		if _, err := s.GetOrCreatePeriod(ctx, time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("create period: %v", err)
		}
	}

	periods, err := s.ListRecentPeriods(ctx, 3)
	if err != nil {
		t.Fatalf("list periods: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("len = %d, want 3", len(periods))
	}
	if periods[0].Name != "Abril/2026" || periods[2].Name != "Fevereiro/2026" {
		t.Errorf("order = [%q .. %q]", periods[0].Name, periods[2].Name)
	}
}

func TestItemCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustPeriod(t, s)

	it := mustItem(t, s, p.ID, "Leite", 2, 4.5)
	if it.ID == "" {
		t.Fatal("expected generated id")
	}
	if it.Status != model.StatusPending {
		t.Errorf("status = %q", it.Status)
	}
	if it.Behavior != model.UnitPriced {
		t.Errorf("behavior = %v, want UnitPriced", it.Behavior)
	}
	if it.CreatedByName != "Ana" {
		t.Errorf("created_by_name = %q", it.CreatedByName)
	}

	newName := "Leite Integral"
	newPrice := 5.0
	updated, err := s.UpdateItem(ctx, it.ID, ItemPatch{Name: &newName, UnitPrice: &newPrice})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Name != newName || updated.UnitPrice != newPrice {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Quantity != 2 {
		t.Errorf("quantity changed to %v", updated.Quantity)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("updated_at went backwards")
	}

	missing, err := s.UpdateItem(ctx, "nope", ItemPatch{Name: &newName})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if missing != nil {
		t.Errorf("update of missing id returned %+v", missing)
	}

	if err := s.DeleteItem(ctx, it.ID, "Bruno"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	items, err := s.ListItems(ctx, p.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("live items after delete = %d", len(items))
	}
}

func TestWeightPricedBehaviorFromCategory(t *testing.T) {
	s := setupTestStore(t)
	p := mustPeriod(t, s)

	it, err := s.CreateItem(context.Background(), NewItem{
		PeriodID: p.ID, Name: "Picanha", Quantity: 1.5, UnitPrice: 80,
		Category: model.CategoryChurrasco, Status: model.StatusPending,
		CreatedByName: "Ana",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if it.Behavior != model.WeightPriced {
		t.Errorf("behavior = %v, want WeightPriced", it.Behavior)
	}
	if it.Total() != 80 {
		t.Errorf("total = %v, want 80", it.Total())
	}
}

func TestSoftDeleteRestoreAndCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustPeriod(t, s)

	a := mustItem(t, s, p.ID, "Leite", 1, 5)
	mustItem(t, s, p.ID, "Café", 1, 12)

	if err := s.DeleteItem(ctx, a.ID, "Bruno"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	count, err := s.CountSoftDeleted(ctx, p.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if err := s.DeleteAllInPeriod(ctx, p.ID, "Bruno"); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	items, _ := s.ListItems(ctx, p.ID)
	if len(items) != 0 {
		t.Errorf("live items = %d, want 0", len(items))
	}
	count, _ = s.CountSoftDeleted(ctx, p.ID)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	restored, err := s.RestoreAllInPeriod(ctx, p.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != 2 {
		t.Errorf("restored = %d, want 2", restored)
	}
	items, _ = s.ListItems(ctx, p.ID)
	if len(items) != 2 {
		t.Errorf("live items after restore = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.DeletedAt != nil || it.DeletedByName != "" {
			t.Errorf("restored item keeps tombstone: %+v", it)
		}
	}
}

func TestZeroAllPrices(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p := mustPeriod(t, s)

	mustItem(t, s, p.ID, "Leite", 1, 5)
	mustItem(t, s, p.ID, "Café", 2, 12)

	if err := s.ZeroAllPrices(ctx, p.ID); err != nil {
		t.Fatalf("zero prices: %v", err)
	}
	items, err := s.ListItems(ctx, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, it := range items {
		if it.UnitPrice != 0 {
			t.Errorf("item %q price = %v", it.Name, it.UnitPrice)
		}
		if it.Quantity == 0 {
			t.Errorf("item %q quantity zeroed", it.Name)
		}
	}
}

func TestCopyAllItems(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	from := mustPeriod(t, s)
	to, err := s.GetOrCreatePeriod(ctx, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create target period: %v", err)
	}

	src := mustItem(t, s, from.ID, "Leite", 2, 4.5)
	bought := model.StatusBought
	if _, err := s.UpdateItem(ctx, src.ID, ItemPatch{Status: &bought}); err != nil {
		t.Fatalf("mark bought: %v", err)
	}
	tomb := mustItem(t, s, from.ID, "Excluído", 1, 1)
	if err := s.DeleteItem(ctx, tomb.ID, "Ana"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := s.CopyAllItems(ctx, from.ID, to.ID, "Bruno")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if count != 1 {
		t.Errorf("copied = %d, want 1", count)
	}

	copied, err := s.ListItems(ctx, to.ID)
	if err != nil {
		t.Fatalf("list target: %v", err)
	}
	if len(copied) != 1 {
		t.Fatalf("target items = %d, want 1", len(copied))
	}
	got := copied[0]
	if got.ID == src.ID {
		t.Error("copy reused the source id")
	}
	if got.Status != model.StatusPending {
		t.Errorf("copied status = %q, want PENDING", got.Status)
	}
	if got.CreatedByName != "Bruno" {
		t.Errorf("copied creator = %q, want Bruno", got.CreatedByName)
	}
	if got.Name != "Leite" || got.Quantity != 2 || got.UnitPrice != 4.5 {
		t.Errorf("copied fields = %+v", got)
	}
}

func TestListItemTotalsAcrossPeriods(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	p1 := mustPeriod(t, s)
	p2, err := s.GetOrCreatePeriod(ctx, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create period: %v", err)
	}

	mustItem(t, s, p1.ID, "Leite", 2, 5)
	mustItem(t, s, p2.ID, "Café", 1, 12)
	tomb := mustItem(t, s, p2.ID, "Excluído", 1, 100)
	if err := s.DeleteItem(ctx, tomb.ID, "Ana"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	totals, err := s.ListItemTotalsAcrossPeriods(ctx, []string{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("list totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("len = %d, want 2", len(totals))
	}

	empty, err := s.ListItemTotalsAcrossPeriods(ctx, nil)
	if err != nil {
		t.Fatalf("empty query: %v", err)
	}
	if empty != nil {
		t.Errorf("empty query = %v", empty)
	}
}
