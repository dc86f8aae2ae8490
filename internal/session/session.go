// Package session owns the per-browser application state and the
// reconciliation protocol that keeps it consistent with the data store.
// Every mutating action issues a gateway write and replaces the affected
// local record(s) with the server-confirmed result; success is never assumed.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"listinha/internal/audit"
	"listinha/internal/category"
	"listinha/internal/derive"
	"listinha/internal/format"
	"listinha/internal/gateway"
	"listinha/internal/model"
	"listinha/internal/period"
)

// Prefs are the client-persisted preferences that seed a fresh session.
type Prefs struct {
	CollaboratorName string
	Theme            string
	CursorMonth      string
}

// Session is the single state instance for one collaborator's browser
// session. All mutation goes through its methods; gateway calls happen
// outside the lock and their responses are re-validated before being
// applied (load epoch for period loads, per-field guard for inline edits).
type Session struct {
	mu     sync.Mutex
	store  gateway.Store
	audit  *audit.Publisher
	logger *slog.Logger

	collaboratorName string
	theme            string
	cursorDate       time.Time
	currentPeriod    *model.Period
	items            []model.Item
	filters          derive.Filters
	sortKey          derive.SortKey
	softDeleted      int

	// loadEpoch invalidates in-flight period loads: a response is applied
	// only if its epoch is still current.
	loadEpoch uint64
	saving    map[string]bool
}

func New(store gateway.Store, aud *audit.Publisher, logger *slog.Logger, prefs Prefs) *Session {
	cursor := period.StartOfMonth(time.Now().UTC())
	if prefs.CursorMonth != "" {
		if t, ok := period.ParseMonthKey(prefs.CursorMonth); ok {
			cursor = t
		}
	}
	theme := prefs.Theme
	if theme != "light" {
		theme = "dark"
	}
	return &Session{
		store:            store,
		audit:            aud,
		logger:           logger,
		collaboratorName: strings.TrimSpace(prefs.CollaboratorName),
		theme:            theme,
		cursorDate:       cursor,
		filters:          derive.Filters{Status: derive.FilterAll, Collaborator: derive.FilterAll},
		sortKey:          derive.SortCreatedDesc,
		saving:           make(map[string]bool),
	}
}

// --- Identity and preferences ---

func (s *Session) CollaboratorName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collaboratorName
}

func (s *Session) SetCollaboratorName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Message: "Informe seu nome para colaborar."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collaboratorName = name
	return nil
}

func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return &ValidationError{Message: "Tema inválido."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

// CursorMonthKey returns the persisted "2026-03" style cursor key.
func (s *Session) CursorMonthKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return period.MonthKey(s.cursorDate)
}

func (s *Session) SetFilters(f derive.Filters, key derive.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Status == "" {
		f.Status = derive.FilterAll
	}
	if f.Collaborator == "" {
		f.Collaborator = derive.FilterAll
	}
	s.filters = f
	if key != "" {
		s.sortKey = key
	}
}

// --- Period loading and navigation ---

// Refresh performs the get-or-create lookup for the cursor month and reloads
// that period's items wholesale. A load that finishes after a newer load has
// started is discarded.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loadEpoch++
	epoch := s.loadEpoch
	cursor := s.cursorDate
	s.mu.Unlock()

	p, err := s.store.GetOrCreatePeriod(ctx, cursor)
	if err != nil {
		return fmt.Errorf("load period: %w", err)
	}

	var items []model.Item
	var deleted int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListItems(gctx, p.ID)
		return err
	})
	g.Go(func() error {
		var err error
		deleted, err = s.store.CountSoftDeleted(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.loadEpoch {
		s.logger.Debug("discarding stale period load", "period", p.Name)
		return nil
	}
	s.currentPeriod = p
	s.items = items
	s.softDeleted = deleted
	return nil
}

// MoveMonth advances the cursor by delta calendar months and reloads.
func (s *Session) MoveMonth(ctx context.Context, delta int) error {
	s.mu.Lock()
	s.cursorDate = period.AddMonths(s.cursorDate, delta)
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// --- Item mutations ---

// ItemInput is the raw full-form submit payload. QuantityRaw and
// UnitPriceRaw arrive exactly as typed; parsing happens here, before any
// gateway call.
type ItemInput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	QuantityRaw  string `json:"quantity"`
	UnitPriceRaw string `json:"unit_price"`
	Category     string `json:"category"`
	Status       string `json:"status"`
}

// SubmitItem validates and persists a full-form create or edit. New
// non-Churrasco items are checked for duplicates against the loaded list
// before any network call.
func (s *Session) SubmitItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Message: "Informe o nome do item."}
	}

	cat := category.Normalize(in.Category)
	if strings.TrimSpace(in.Category) == "" {
		cat = category.Classify(name)
	}
	behavior := model.BehaviorOf(cat)

	status := model.Status(in.Status)
	if !status.Valid() {
		status = model.StatusPending
	}

	qty, ok := format.ParseQuantity(in.QuantityRaw, behavior)
	if !ok {
		return nil, &ValidationError{Message: format.QuantityHint(behavior)}
	}
	price := format.ParseCurrencyBRL(in.UnitPriceRaw)

	s.mu.Lock()
	if s.currentPeriod == nil {
		s.mu.Unlock()
		return nil, ErrNoPeriod
	}
	periodID := s.currentPeriod.ID
	creator := s.collaboratorName
	if behavior != model.WeightPriced {
		key := format.NormalizeNameKey(name)
		for _, it := range s.items {
			if in.ID != "" && it.ID == in.ID {
				continue
			}
			if it.Behavior == model.WeightPriced {
				continue
			}
			if format.NormalizeNameKey(it.Name) == key {
				s.mu.Unlock()
				return nil, &DuplicateError{Name: name}
			}
		}
	}
	s.mu.Unlock()

	if in.ID != "" {
		patch := gateway.ItemPatch{
			Name:      &name,
			Quantity:  &qty.Value,
			UnitPrice: &price,
			Category:  &cat,
			Status:    &status,
		}
		updated, err := s.store.UpdateItem(ctx, in.ID, patch)
		if err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}
		if updated == nil {
			return nil, ErrNotFound
		}
		s.replaceItem(*updated)
		s.audit.Publish(ctx, audit.Event{
			Action: "item_updated", CollaboratorName: creator,
			PeriodID: periodID, ItemID: updated.ID,
		})
		return updated, nil
	}

	created, err := s.store.CreateItem(ctx, gateway.NewItem{
		PeriodID:      periodID,
		Name:          name,
		Quantity:      qty.Value,
		UnitPrice:     price,
		Category:      cat,
		Status:        status,
		CreatedByName: orDefault(creator, "Colaborador"),
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.prependItem(*created)
	s.audit.Publish(ctx, audit.Event{
		Action: "item_created", CollaboratorName: creator,
		PeriodID: periodID, ItemID: created.ID,
	})
	return created, nil
}

// Editable inline fields.
const (
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unit_price"
)

// CommitInlineEdit parses and saves a single-cell edit. A parse failure
// reverts the edit with a validation notice and makes no network call; a
// gateway failure leaves state untouched. Concurrent commits for the same
// field of the same item are rejected.
func (s *Session) CommitInlineEdit(ctx context.Context, id, field, raw string) (*model.Item, error) {
	s.mu.Lock()
	var target *model.Item
	for i := range s.items {
		if s.items[i].ID == id {
			target = &s.items[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	behavior := target.Behavior
	creator := s.collaboratorName
	periodID := target.PeriodID

	guard := id + "/" + field
	if s.saving[guard] {
		s.mu.Unlock()
		return nil, ErrEditInFlight
	}
	s.saving[guard] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.saving, guard)
		s.mu.Unlock()
	}()

	var patch gateway.ItemPatch
	switch field {
	case FieldQuantity:
		qty, ok := format.ParseQuantity(raw, behavior)
		if !ok {
			return nil, &ValidationError{Message: format.QuantityHint(behavior)}
		}
		patch.Quantity = &qty.Value
	case FieldUnitPrice:
		price := format.ParseCurrencyBRL(raw)
		patch.UnitPrice = &price
	default:
		return nil, &ValidationError{Message: "Campo inválido."}
	}

	updated, err := s.store.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("save edit: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.replaceItem(*updated)
	s.audit.Publish(ctx, audit.Event{
		Action: "item_updated", CollaboratorName: creator,
		PeriodID: periodID, ItemID: id,
		Details: map[string]any{"field": field},
	})
	return updated, nil
}

// ToggleStatus flips an item between pending and bought.
func (s *Session) ToggleStatus(ctx context.Context, id string) (*model.Item, error) {
	s.mu.Lock()
	var current *model.Item
	for i := range s.items {
		if s.items[i].ID == id {
			current = &s.items[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	next := model.StatusBought
	if current.Status == model.StatusBought {
		next = model.StatusPending
	}
	creator := s.collaboratorName
	periodID := current.PeriodID
	s.mu.Unlock()

	updated, err := s.store.UpdateItem(ctx, id, gateway.ItemPatch{Status: &next})
	if err != nil {
		return nil, fmt.Errorf("toggle status: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	s.replaceItem(*updated)
	s.audit.Publish(ctx, audit.Event{
		Action: "status_toggled", CollaboratorName: creator,
		PeriodID: periodID, ItemID: id,
		Details: map[string]any{"status": string(next)},
	})
	return updated, nil
}

// DeleteItem removes (or tombstones) one item.
func (s *Session) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	creator := s.collaboratorName
	var periodID string
	found := false
	for _, it := range s.items {
		if it.ID == id {
			periodID = it.PeriodID
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}

	if err := s.store.DeleteItem(ctx, id, creator); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.mu.Lock()
	kept := s.items[:0:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	if s.store.Capabilities().SoftDelete {
		s.softDeleted++
	}
	s.mu.Unlock()

	s.audit.Publish(ctx, audit.Event{
		Action: "item_deleted", CollaboratorName: creator,
		PeriodID: periodID, ItemID: id,
	})
	return nil
}

// --- Bulk operations (whole-period, pre-confirmed by the caller) ---

func (s *Session) ZeroPrices(ctx context.Context) error {
	periodID, creator, err := s.requirePeriod()
	if err != nil {
		return err
	}
	if err := s.store.ZeroAllPrices(ctx, periodID); err != nil {
		return fmt.Errorf("zero prices: %w", err)
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].UnitPrice = 0
	}
	s.mu.Unlock()

	s.audit.Publish(ctx, audit.Event{
		Action: "prices_zeroed", CollaboratorName: creator, PeriodID: periodID,
	})
	return nil
}

func (s *Session) DeleteMonth(ctx context.Context) error {
	periodID, creator, err := s.requirePeriod()
	if err != nil {
		return err
	}
	if err := s.store.DeleteAllInPeriod(ctx, periodID, creator); err != nil {
		return fmt.Errorf("delete month: %w", err)
	}

	s.mu.Lock()
	if s.store.Capabilities().SoftDelete {
		s.softDeleted += len(s.items)
	}
	s.items = nil
	s.mu.Unlock()

	s.audit.Publish(ctx, audit.Event{
		Action: "month_deleted", CollaboratorName: creator, PeriodID: periodID,
	})
	return nil
}

// RestoreMonth brings tombstoned items back and reloads the list.
func (s *Session) RestoreMonth(ctx context.Context) (int64, error) {
	periodID, creator, err := s.requirePeriod()
	if err != nil {
		return 0, err
	}
	count, err := s.store.RestoreAllInPeriod(ctx, periodID)
	if err != nil {
		return 0, fmt.Errorf("restore month: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		return count, err
	}
	s.audit.Publish(ctx, audit.Event{
		Action: "month_restored", CollaboratorName: creator, PeriodID: periodID,
		Details: map[string]any{"count": count},
	})
	return count, nil
}

// CopyToNextMonth copies every live item of the current period into the next
// calendar month's period (created on demand), as pending items credited to
// the active collaborator.
func (s *Session) CopyToNextMonth(ctx context.Context) (int, *model.Period, error) {
	s.mu.Lock()
	if s.currentPeriod == nil {
		s.mu.Unlock()
		return 0, nil, ErrNoPeriod
	}
	fromID := s.currentPeriod.ID
	cursor := s.cursorDate
	creator := s.collaboratorName
	s.mu.Unlock()

	next, err := s.store.GetOrCreatePeriod(ctx, period.AddMonths(cursor, 1))
	if err != nil {
		return 0, nil, fmt.Errorf("next period: %w", err)
	}
	count, err := s.store.CopyAllItems(ctx, fromID, next.ID, orDefault(creator, "Colaborador"))
	if err != nil {
		return 0, nil, fmt.Errorf("copy items: %w", err)
	}
	s.audit.Publish(ctx, audit.Event{
		Action: "items_copied", CollaboratorName: creator, PeriodID: fromID,
		Details: map[string]any{"to_period_id": next.ID, "count": count},
	})
	return count, next, nil
}

// --- Analytics ---

// Analytics bundles the three chart series.
type Analytics struct {
	PriceBuckets  derive.PriceBuckets  `json:"price_buckets"`
	StatusCounts  derive.StatusCounts  `json:"status_counts"`
	MonthlySeries derive.MonthlySeries `json:"monthly_series"`
}

// ComputeAnalytics derives the chart data. The monthly series needs a
// cross-period query: the 12 most recent periods are fetched and the item
// totals for the last 6 are pulled in one call.
func (s *Session) ComputeAnalytics(ctx context.Context) (Analytics, error) {
	s.mu.Lock()
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	a := Analytics{
		PriceBuckets: derive.ComputePriceBuckets(items),
		StatusCounts: derive.ComputeStatusCounts(items),
	}

	periods, err := s.store.ListRecentPeriods(ctx, 12)
	if err != nil {
		return a, fmt.Errorf("list periods: %w", err)
	}
	ids := make([]string, len(periods))
	for i, p := range periods {
		ids[i] = p.ID
	}
	rows, err := s.store.ListItemTotalsAcrossPeriods(ctx, ids)
	if err != nil {
		return a, fmt.Errorf("list totals: %w", err)
	}

	totals := make([]derive.TotalRow, len(rows))
	for i, r := range rows {
		totals[i] = derive.TotalRow{
			PeriodID:  r.PeriodID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Category:  r.Category,
		}
	}
	a.MonthlySeries = derive.ComputeMonthlySeries(periods, totals)
	return a, nil
}

// --- Internal helpers ---

func (s *Session) requirePeriod() (periodID, creator string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPeriod == nil {
		return "", "", ErrNoPeriod
	}
	return s.currentPeriod.ID, s.collaboratorName, nil
}

// replaceItem applies a server-confirmed record over the local copy. The
// server response is authoritative: the whole record is swapped, never
// merged field by field. An id that is no longer present is ignored
// (last response wins, the row was removed meanwhile).
func (s *Session) replaceItem(updated model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == updated.ID {
			s.items[i] = updated
			return
		}
	}
}

func (s *Session) prependItem(created model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]model.Item{created}, s.items...)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
