// Package dashboard builds the net-worth breakdown by platform and keeps it
// current as platforms and performance figures change.
package dashboard

import (
	"sort"

	"wealthsync/src/model"
	"wealthsync/src/valuation"
)

// BuildBreakdown computes each platform's share of total value, attaches
// the month change reported for the platform name and sorts by value
// descending. Equal values keep their input order.
func BuildBreakdown(platforms []model.Platform, perf []model.PlatformPerformance) []model.BreakdownItem {
	values := make([]float64, len(platforms))
	var total float64
	for i, p := range platforms {
		values[i] = valuation.ForPlatform(p).TotalValue
		total += values[i]
	}

	items := make([]model.BreakdownItem, len(platforms))
	for i, p := range platforms {
		var pct float64
		if total > 0 {
			pct = values[i] / total * 100
		}
		items[i] = model.BreakdownItem{
			Name:       p.Name,
			Color:      p.ColorHex,
			Value:      values[i],
			Percentage: pct,
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Value > items[j].Value })
	return MergePerformance(items, perf)
}

// MergePerformance sets the month change fields of items from perf by exact
// platform name. Items without a match get zeros, so it can be re-run over
// the last breakdown whenever new figures arrive. items is not modified.
func MergePerformance(items []model.BreakdownItem, perf []model.PlatformPerformance) []model.BreakdownItem {
	byName := make(map[string]model.PlatformPerformance, len(perf))
	for _, p := range perf {
		byName[p.Platform] = p
	}

	out := make([]model.BreakdownItem, len(items))
	for i, it := range items {
		it.MonthChange, it.MonthChangePercent = 0, 0
		if p, ok := byName[it.Name]; ok {
			if p.MonthChangeAmount != nil {
				it.MonthChange = *p.MonthChangeAmount
			}
			if p.MonthChangePercent != nil {
				it.MonthChangePercent = *p.MonthChangePercent
			}
		}
		out[i] = it
	}
	return out
}
