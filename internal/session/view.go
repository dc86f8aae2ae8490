package session

import (
	"listinha/internal/derive"
	"listinha/internal/format"
	"listinha/internal/model"
	"listinha/internal/period"
)

// ItemView is one item with its display strings pre-rendered.
type ItemView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Status           string `json:"status"`
	QuantityDisplay  string `json:"quantity_display"`
	UnitPriceDisplay string `json:"unit_price_display"`
	TotalDisplay     string `json:"total_display"`
	CollaboratorName string `json:"collaborator_name"`
	WeightPriced     bool   `json:"weight_priced"`

	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// GroupView is one category section of the list.
type GroupView struct {
	Category string     `json:"category"`
	Items    []ItemView `json:"items"`
}

// View is the full render payload for one session: the derived state at this
// instant, with filters and sorting already applied and amounts localized.
type View struct {
	PeriodName       string `json:"period_name"`
	MonthKey         string `json:"month_key"`
	CollaboratorName string `json:"collaborator_name"`
	Theme            string `json:"theme"`
	NeedsName        bool   `json:"needs_name"`

	Filters derive.Filters `json:"filters"`
	SortKey string         `json:"sort_key"`

	KPIs             derive.KPIs                  `json:"kpis"`
	TotalDisplay     string                       `json:"total_display"`
	PendingDisplay   string                       `json:"pending_display"`
	BoughtDisplay    string                       `json:"bought_display"`
	AvgDisplay       string                       `json:"avg_display"`
	Collaborators    []derive.CollaboratorSummary `json:"collaborators"`
	CollaboratorOpts []string                     `json:"collaborator_options"`
	Groups           []GroupView                  `json:"groups"`

	VisibleItems    int  `json:"visible_items"`
	SoftDeleted     int  `json:"soft_deleted"`
	CanRestoreMonth bool `json:"can_restore_month"`
}

// View derives the current render payload. It reads state under the lock and
// computes everything else from the snapshot; nothing is cached.
func (s *Session) View() View {
	s.mu.Lock()
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	p := s.currentPeriod
	filters := s.filters
	sortKey := s.sortKey
	name := s.collaboratorName
	theme := s.theme
	cursor := s.cursorDate
	softDeleted := s.softDeleted
	caps := s.store.Capabilities()
	s.mu.Unlock()

	v := View{
		MonthKey:         period.MonthKey(cursor),
		PeriodName:       period.Name(cursor),
		CollaboratorName: name,
		Theme:            theme,
		NeedsName:        name == "",
		Filters:          filters,
		SortKey:          string(sortKey),
		SoftDeleted:      softDeleted,
		CanRestoreMonth:  caps.SoftDelete && softDeleted > 0,
	}
	if p != nil {
		v.PeriodName = p.Name
	}

	// KPIs and per-collaborator stats cover the whole period regardless of
	// the active filters; only the list itself is filtered.
	v.KPIs = derive.ComputeKPIs(items)
	v.TotalDisplay = format.FormatCurrencyBRL(v.KPIs.TotalValue)
	v.PendingDisplay = format.FormatCurrencyBRL(v.KPIs.PendingValue)
	v.BoughtDisplay = format.FormatCurrencyBRL(v.KPIs.BoughtValue)
	v.AvgDisplay = format.FormatCurrencyBRL(v.KPIs.AvgItemTotal)
	v.Collaborators = derive.ComputeByCollaborator(items)
	for _, c := range v.Collaborators {
		v.CollaboratorOpts = append(v.CollaboratorOpts, c.Name)
	}

	visible := derive.SortItems(derive.ApplyFilters(items, filters), sortKey)
	v.VisibleItems = len(visible)
	for _, g := range derive.GroupByCategory(visible) {
		gv := GroupView{Category: g.Category, Items: make([]ItemView, 0, len(g.Items))}
		for _, it := range g.Items {
			gv.Items = append(gv.Items, renderItem(it))
		}
		v.Groups = append(v.Groups, gv)
	}
	return v
}

func renderItem(it model.Item) ItemView {
	return ItemView{
		ID:               it.ID,
		Name:             it.Name,
		Category:         it.Category,
		Status:           string(it.Status),
		QuantityDisplay:  format.FormatQuantity(it.Quantity, it.Behavior),
		UnitPriceDisplay: format.FormatCurrencyBRL(it.UnitPrice),
		TotalDisplay:     format.FormatCurrencyBRL(it.Total()),
		CollaboratorName: derive.CollaboratorName(it),
		WeightPriced:     it.Behavior == model.WeightPriced,
		Quantity:         it.Quantity,
		UnitPrice:        it.UnitPrice,
	}
}
