package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimedash/internal/core"
	"crimedash/internal/dataset"
	"crimedash/internal/dataset/datasettest"
)

func TestFilterPredicates(t *testing.T) {
	ds := datasettest.Sample()
	tests := []struct {
		name     string
		units    []string
		lo, hi   int
		wantRows int
	}{
		{"single unit single year", []string{"DMP"}, 2022, 2022, 2},
		{"two units full range", []string{"DMP", "CMP"}, 2021, 2025, 7},
		{"default selection", []string{"DMP", "CMP"}, 2021, 2024, 7},
		{"unknown unit", []string{"XYZ"}, 2021, 2025, 0},
		{"empty units", []string{}, 2021, 2025, 0},
		{"nil units", nil, 2021, 2025, 0},
		{"inverted range", []string{"DMP"}, 2023, 2021, 0},
		{"range outside data", []string{"DMP"}, 2030, 2031, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Filter(ds, tt.units, tt.lo, tt.hi)
			require.Len(t, view, tt.wantRows)
			for _, r := range view {
				assert.Contains(t, tt.units, r.Unit)
				assert.GreaterOrEqual(t, r.Year, tt.lo)
				assert.LessOrEqual(t, r.Year, tt.hi)
			}
		})
	}
}

func TestFilterPreservesSourceOrder(t *testing.T) {
	view := Filter(datasettest.Sample(), []string{"CMP", "DMP"}, 2021, 2021)
	require.Len(t, view, 3)
	assert.Equal(t, "DMP", view[0].Unit)
	assert.Equal(t, "DMP", view[1].Unit)
	assert.Equal(t, "CMP", view[2].Unit)
}

func TestFilterDoesNotAliasDataset(t *testing.T) {
	ds := datasettest.Sample()
	view := Filter(ds, []string{"DMP"}, 2021, 2025)
	require.NotEmpty(t, view)
	view[0].Unit = "changed"
	view[0].Counts[0] = 999
	assert.Equal(t, "DMP", ds.At(0).Unit)
	assert.Equal(t, int64(0), ds.At(0).Counts[0])
}

func TestFilterNilAndEmptyDataset(t *testing.T) {
	assert.Empty(t, Filter(nil, []string{"DMP"}, 2021, 2025))
	assert.Empty(t, Filter(dataset.New("empty", nil), []string{"DMP"}, 2021, 2025))
}

func TestApplyIgnoresCategories(t *testing.T) {
	ds := datasettest.Sample()
	sel := core.Selection{Units: []string{"DMP"}, YearFrom: 2022, YearTo: 2022, Categories: []string{core.Murder}}
	assert.Equal(t, Filter(ds, []string{"DMP"}, 2022, 2022), Apply(ds, sel))
}

func TestHead(t *testing.T) {
	view := Filter(datasettest.Sample(), []string{"DMP", "CMP"}, 2021, 2025)
	assert.Len(t, Head(view, 2), 2)
	assert.Len(t, Head(view, 50), len(view))
	assert.Empty(t, Head(view, -1))
	assert.Empty(t, Head(nil, 5))

	h := Head(view, 1)
	h[0].Unit = "changed"
	assert.Equal(t, "DMP", view[0].Unit)
}
