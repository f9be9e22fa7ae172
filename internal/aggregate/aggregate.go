// Package aggregate computes the dashboard metrics over a filtered view.
// Every function is pure: it reads the view and returns fresh values.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"crimedash/internal/core"
)

// DefaultUnitLimit caps UnitTotals when the caller passes a non-positive limit.
const DefaultUnitLimit = 10

// Summarize computes the four summary scalars. The peak is taken over
// categories; when none of them is known the full canonical list is used.
func Summarize(view core.View, categories []string) core.Summary {
	s := core.Summary{Empty: len(view) == 0}

	units := make(map[string]struct{})
	months := make(map[time.Time]int64)
	for _, r := range view {
		s.TotalCases += r.Total
		units[r.Unit] = struct{}{}
		months[r.Date()] += r.Total
	}
	s.DistinctUnits = len(units)

	if len(months) > 0 {
		var sum int64
		for _, v := range months {
			sum += v
		}
		s.AvgMonthly = float64(sum) / float64(len(months))
		s.AvgMonthlyOK = true
	}

	s.PeakCategory, s.PeakValue = peak(view, categories)
	return s
}

// peak returns the category with the largest sum. Ties go to the category
// that comes first in canonical order.
func peak(view core.View, categories []string) (string, int64) {
	cats := peakCandidates(categories)
	totals := CategoryTotals(view, cats)

	best := totals[0]
	for _, ct := range totals[1:] {
		if ct.Total > best.Total ||
			(ct.Total == best.Total && core.CategoryIndex(ct.Category) < core.CategoryIndex(best.Category)) {
			best = ct
		}
	}
	return best.Category, best.Total
}

func peakCandidates(categories []string) []string {
	known := core.FilterCategories(categories)
	if len(known) == 0 {
		return core.Categories()
	}
	return known
}

// CategoryTotals returns one entry per known category in the supplied order.
// Unknown names and duplicates are dropped.
func CategoryTotals(view core.View, categories []string) []core.CategoryTotal {
	known := core.FilterCategories(categories)
	out := make([]core.CategoryTotal, len(known))
	for i, c := range known {
		idx := core.CategoryIndex(c)
		var sum int64
		for _, r := range view {
			sum += r.Counts[idx]
		}
		out[i] = core.CategoryTotal{Category: c, Total: sum}
	}
	return out
}

// MonthlySeries sums Total_Cases by month, ascending by date.
func MonthlySeries(view core.View) []core.Point {
	byDate := make(map[time.Time]int64)
	for _, r := range view {
		byDate[r.Date()] += r.Total
	}
	return sortedPoints(byDate)
}

// UnitTotals sums Total_Cases per unit, largest first with ties broken by
// unit name, truncated to limit.
func UnitTotals(view core.View, limit int) []core.UnitTotal {
	if limit <= 0 {
		limit = DefaultUnitLimit
	}
	byUnit := make(map[string]int64)
	for _, r := range view {
		byUnit[r.Unit] += r.Total
	}
	out := make([]core.UnitTotal, 0, len(byUnit))
	for u, t := range byUnit {
		out = append(out, core.UnitTotal{Unit: u, Total: t})
	}
	slices.SortFunc(out, func(a, b core.UnitTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Unit, b.Unit)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MonthlyCategorySeries returns, for each known category, its summed count
// per month over the dates present in the view.
func MonthlyCategorySeries(view core.View, categories []string) []core.CategorySeries {
	known := core.FilterCategories(categories)
	out := make([]core.CategorySeries, len(known))
	for i, c := range known {
		idx := core.CategoryIndex(c)
		byDate := make(map[time.Time]int64)
		for _, r := range view {
			byDate[r.Date()] += r.Counts[idx]
		}
		out[i] = core.CategorySeries{Category: c, Points: sortedPoints(byDate)}
	}
	return out
}

// SeasonalAverage returns the mean Total_Cases per calendar month over all
// rows of the view. Months without rows have OK=false and a zero Average.
func SeasonalAverage(view core.View) [12]core.SeasonalPoint {
	var sums [12]int64
	var out [12]core.SeasonalPoint
	for _, r := range view {
		i := int(r.Month) - 1
		sums[i] += r.Total
		out[i].Rows++
	}
	for i := range out {
		out[i].Month = time.Month(i + 1)
		if out[i].Rows > 0 {
			out[i].Average = float64(sums[i]) / float64(out[i].Rows)
			out[i].OK = true
		}
	}
	return out
}

func sortedPoints(byDate map[time.Time]int64) []core.Point {
	out := make([]core.Point, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, core.Point{Date: d, Value: v})
	}
	slices.SortFunc(out, func(a, b core.Point) int { return a.Date.Compare(b.Date) })
	return out
}
