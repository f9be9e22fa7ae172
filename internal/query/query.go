// Package query selects the rows of a dataset that match a selection.
package query

import (
	"crimedash/internal/core"
	"crimedash/internal/dataset"
)

// Filter returns the rows whose unit is in units and whose year lies in
// [yearLo, yearHi]. An empty unit set or an inverted range yields an empty
// view. The result never shares a backing array with ds.
func Filter(ds *dataset.Dataset, units []string, yearLo, yearHi int) core.View {
	if ds == nil || len(units) == 0 || yearLo > yearHi {
		return core.View{}
	}
	want := make(map[string]struct{}, len(units))
	for _, u := range units {
		want[u] = struct{}{}
	}

	view := make(core.View, 0)
	for _, r := range ds.All() {
		if r.Year < yearLo || r.Year > yearHi {
			continue
		}
		if _, ok := want[r.Unit]; !ok {
			continue
		}
		view = append(view, r)
	}
	return view
}

// Apply filters ds by the units and year range of sel. Categories do not
// restrict rows.
func Apply(ds *dataset.Dataset, sel core.Selection) core.View {
	return Filter(ds, sel.Units, sel.YearFrom, sel.YearTo)
}

// Head returns a copy of the first n rows of view.
func Head(view core.View, n int) core.View {
	if n < 0 {
		n = 0
	}
	if n > len(view) {
		n = len(view)
	}
	out := make(core.View, n)
	copy(out, view[:n])
	return out
}
