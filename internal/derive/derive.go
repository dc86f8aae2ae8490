// Package derive computes every displayed value from the raw item set. All
// functions are pure: inputs are never mutated and results only depend on the
// arguments, so the whole package can be recomputed on any state change.
package derive

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"listinha/internal/model"
)

// FilterAll is the sentinel meaning "no filtering" for the status and
// collaborator filters.
const FilterAll = "ALL"

// MissingCollaborator stands in for blank creator names in summaries.
const MissingCollaborator = "—"

type KPIs struct {
	TotalItems   int     `json:"total_items"`
	TotalValue   float64 `json:"total_value"`
	PendingValue float64 `json:"pending_value"`
	BoughtValue  float64 `json:"bought_value"`
	ProgressPct  int     `json:"progress_pct"`
	AvgItemTotal float64 `json:"avg_item_total"`
}

func ComputeKPIs(items []model.Item) KPIs {
	var k KPIs
	k.TotalItems = len(items)
	bought := 0
	for _, it := range items {
		total := it.Total()
		k.TotalValue += total
		switch it.Status {
		case model.StatusBought:
			bought++
			k.BoughtValue += total
		default:
			k.PendingValue += total
		}
	}
	if k.TotalItems > 0 {
		k.ProgressPct = int(math.Round(float64(bought) / float64(k.TotalItems) * 100))
		k.AvgItemTotal = k.TotalValue / float64(k.TotalItems)
	}
	return k
}

type CollaboratorSummary struct {
	Name        string  `json:"name"`
	ItemsAdded  int     `json:"items_added"`
	ItemsBought int     `json:"items_bought"`
	SpentBought float64 `json:"spent_bought"`
}

// ComputeByCollaborator groups items by creator name (blank names collapse
// into the em-dash placeholder) and sorts descending by bought spend.
func ComputeByCollaborator(items []model.Item) []CollaboratorSummary {
	index := make(map[string]int)
	var rows []CollaboratorSummary
	for _, it := range items {
		name := CollaboratorName(it)
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, CollaboratorSummary{Name: name})
		}
		rows[i].ItemsAdded++
		if it.Status == model.StatusBought {
			rows[i].ItemsBought++
			rows[i].SpentBought += it.Total()
		}
	}
	for i := range rows {
		rows[i].SpentBought = round2(rows[i].SpentBought)
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].SpentBought > rows[b].SpentBought
	})
	return rows
}

// CollaboratorName is the display identity of an item's creator.
func CollaboratorName(it model.Item) string {
	name := strings.TrimSpace(it.CreatedByName)
	if name == "" {
		return MissingCollaborator
	}
	return name
}

type PriceBuckets struct {
	UpTo10         int `json:"up_to_10"`
	Between10And50 int `json:"between_10_and_50"`
	Above50        int `json:"above_50"`
}

// ComputePriceBuckets is a three-bucket histogram of unit prices in BRL.
func ComputePriceBuckets(items []model.Item) PriceBuckets {
	var b PriceBuckets
	for _, it := range items {
		switch {
		case it.UnitPrice <= 10:
			b.UpTo10++
		case it.UnitPrice <= 50:
			b.Between10And50++
		default:
			b.Above50++
		}
	}
	return b
}

type StatusCounts struct {
	Pending int `json:"pending"`
	Bought  int `json:"bought"`
}

func ComputeStatusCounts(items []model.Item) StatusCounts {
	var c StatusCounts
	for _, it := range items {
		if it.Status == model.StatusBought {
			c.Bought++
		} else {
			c.Pending++
		}
	}
	return c
}

// TotalRow is one cross-period item total record from the gateway. The
// category rides along so the weight-priced total rule applies here too.
type TotalRow struct {
	PeriodID  string
	Quantity  float64
	UnitPrice float64
	Category  string
}

type MonthlySeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ComputeMonthlySeries sums item totals per period for the 6 most recent of
// the given periods, in chronological order. Periods may arrive in any order.
func ComputeMonthlySeries(periods []model.Period, rows []TotalRow) MonthlySeries {
	sorted := make([]model.Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].StartDate.Before(sorted[b].StartDate)
	})
	if len(sorted) > 6 {
		sorted = sorted[len(sorted)-6:]
	}

	totals := make(map[string]float64, len(sorted))
	for _, p := range sorted {
		totals[p.ID] = 0
	}
	for _, r := range rows {
		if _, ok := totals[r.PeriodID]; !ok {
			continue
		}
		it := model.Item{
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Behavior:  model.BehaviorOf(r.Category),
		}
		totals[r.PeriodID] += it.Total()
	}

	series := MonthlySeries{
		Labels: make([]string, 0, len(sorted)),
		Values: make([]float64, 0, len(sorted)),
	}
	for _, p := range sorted {
		series.Labels = append(series.Labels, p.Name)
		series.Values = append(series.Values, round2(totals[p.ID]))
	}
	return series
}

type Filters struct {
	Status       string `json:"status"`
	Collaborator string `json:"collaborator"`
	Search       string `json:"search"`
}

// ApplyFilters runs the sequential filter pipeline: status equality, then
// collaborator equality, then case-insensitive substring match on the name.
func ApplyFilters(items []model.Item, f Filters) []model.Item {
	out := make([]model.Item, 0, len(items))
	q := strings.ToLower(strings.TrimSpace(f.Search))
	for _, it := range items {
		if f.Status != "" && f.Status != FilterAll && string(it.Status) != f.Status {
			continue
		}
		if f.Collaborator != "" && f.Collaborator != FilterAll && CollaboratorName(it) != f.Collaborator {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

type SortKey string

const (
	SortNameAsc     SortKey = "name_asc"
	SortValueDesc   SortKey = "value_desc"
	SortValueAsc    SortKey = "value_asc"
	SortCreatedDesc SortKey = "created_desc"
)

var nameCollator = collate.New(language.BrazilianPortuguese, collate.Loose)

// SortItems returns a sorted copy; the input slice is left untouched.
// Unknown keys fall back to the default created_desc ordering.
func SortItems(items []model.Item, key SortKey) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	switch key {
	case SortNameAsc:
		sort.SliceStable(out, func(a, b int) bool {
			return nameCollator.CompareString(out[a].Name, out[b].Name) < 0
		})
	case SortValueDesc:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Total() > out[b].Total()
		})
	case SortValueAsc:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Total() < out[b].Total()
		})
	default:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		})
	}
	return out
}

type CategoryGroup struct {
	Category string       `json:"category"`
	Items    []model.Item `json:"items"`
}

// GroupByCategory partitions items into the fixed category order, omitting
// empty groups. A Churrasco group always trails the regular categories.
func GroupByCategory(items []model.Item) []CategoryGroup {
	buckets := make(map[string][]model.Item)
	for _, it := range items {
		cat := it.Category
		if cat != model.CategoryChurrasco && !model.KnownCategory(cat) {
			cat = model.CategoryGeral
		}
		buckets[cat] = append(buckets[cat], it)
	}

	var groups []CategoryGroup
	for _, cat := range model.CategoryOrder {
		if its := buckets[cat]; len(its) > 0 {
			groups = append(groups, CategoryGroup{Category: cat, Items: its})
		}
	}
	if its := buckets[model.CategoryChurrasco]; len(its) > 0 {
		groups = append(groups, CategoryGroup{Category: model.CategoryChurrasco, Items: its})
	}
	return groups
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
