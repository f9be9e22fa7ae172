package dataset_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimedash/internal/core"
	"crimedash/internal/dataset"
	"crimedash/internal/dataset/datasettest"
)

func load(t *testing.T, rows [][]string, policy dataset.TotalsPolicy) (*dataset.Dataset, error) {
	t.Helper()
	src := datasettest.StaticSource{Label: "test.csv", Data: rows}
	return dataset.Load(context.Background(), src, dataset.Options{TotalsPolicy: policy})
}

func TestLoadRoundTrip(t *testing.T) {
	want := datasettest.Records()
	ds, err := load(t, datasettest.Rows(want), "")
	require.NoError(t, err)

	if diff := cmp.Diff(want, ds.Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"CMP", "DMP", "KMP", "RMP"}, ds.Units())
	lo, hi := ds.YearRange()
	assert.Equal(t, 2021, lo)
	assert.Equal(t, 2023, hi)
	assert.Equal(t, []int{2021, 2022, 2023}, ds.Years())
	assert.Equal(t, core.Categories(), ds.Categories())
	assert.Equal(t, len(want), ds.Stats().Rows)
	assert.Zero(t, ds.Stats().TotalMismatches)
}

func TestLoadHeaderIsCaseInsensitiveAndIgnoresExtras(t *testing.T) {
	rows := datasettest.Rows(datasettest.Records()[:1])
	header := append([]string{"Notes"}, rows[0]...)
	header[1] = " year "
	header[2] = "MONTH"
	header[1+len(rows[0])-1] = "total_cases"
	data := append([]string{"ignored"}, rows[1]...)

	ds, err := load(t, [][]string{header, data}, "")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, int64(35), ds.At(0).Total)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	rows := datasettest.Rows(datasettest.Records()[:2])
	rows = append(rows[:2], append([][]string{{"", " "}}, rows[2:]...)...)
	ds, err := load(t, rows, "")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadErrors(t *testing.T) {
	good := datasettest.Rows(datasettest.Records()[:1])

	withCell := func(col int, val string) [][]string {
		row := append([]string(nil), good[1]...)
		row[col] = val
		return [][]string{good[0], row}
	}
	withoutColumn := func(col int) [][]string {
		h := append([]string(nil), good[0][:col]...)
		h = append(h, good[0][col+1:]...)
		return [][]string{h}
	}

	tests := []struct {
		name    string
		rows    [][]string
		wantErr error
		column  string
		row     int
	}{
		{"empty source", nil, core.ErrEmptySource, "", 0},
		{"missing month column", withoutColumn(1), core.ErrMissingColumn, core.ColumnMonth, 0},
		{"missing category column", withoutColumn(5), core.ErrMissingColumn, core.Murder, 0},
		{"missing total column", withoutColumn(len(good[0]) - 1), core.ErrMissingColumn, core.ColumnTotal, 0},
		{"bad month", withCell(1, "Smarch"), core.ErrInvalidMonth, core.ColumnMonth, 2},
		{"bad year", withCell(0, "soon"), core.ErrInvalidYear, core.ColumnYear, 2},
		{"negative count", withCell(4, "-1"), core.ErrInvalidCount, core.Robbery, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.rows, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var le *core.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, "test.csv", le.Source)
			assert.Equal(t, tt.column, le.Column)
			assert.Equal(t, tt.row, le.Row)
		})
	}
}

func TestLoadSourceFailure(t *testing.T) {
	src := datasettest.StaticSource{Label: "gone.csv", Err: os.ErrNotExist}
	_, err := dataset.Load(context.Background(), src, dataset.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "gone.csv", le.Source)
}

func TestLoadTotalsPolicy(t *testing.T) {
	recs := datasettest.Records()[:3]
	recs[1].Total += 5 // DMP Feb 2021 now reports 38 instead of 33
	rows := datasettest.Rows(recs)

	t.Run("trust keeps reported total", func(t *testing.T) {
		ds, err := load(t, rows, dataset.TotalsTrust)
		require.NoError(t, err)
		assert.Equal(t, int64(38), ds.At(1).Total)
		assert.Equal(t, 1, ds.Stats().TotalMismatches)
		assert.Equal(t, 3, ds.Stats().FirstMismatchRow)
	})

	t.Run("recompute replaces total", func(t *testing.T) {
		ds, err := load(t, rows, dataset.TotalsRecompute)
		require.NoError(t, err)
		assert.Equal(t, int64(33), ds.At(1).Total)
		assert.Equal(t, 1, ds.Stats().TotalMismatches)
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := load(t, rows, dataset.TotalsStrict)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrTotalMismatch)
		var le *core.LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 3, le.Row)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := load(t, rows, dataset.TotalsPolicy("maybe"))
		require.Error(t, err)
	})
}

func TestDatasetIsImmutable(t *testing.T) {
	ds := datasettest.Sample()
	recs := ds.Records()
	recs[0].Unit = "XXX"
	assert.Equal(t, "DMP", ds.At(0).Unit)

	units := ds.Units()
	units[0] = "XXX"
	assert.Equal(t, "CMP", ds.Units()[0])

	n := 0
	for range ds.All() {
		n++
	}
	assert.Equal(t, ds.Len(), n)
}

func TestNewEmptyDataset(t *testing.T) {
	ds := dataset.New("empty", nil)
	assert.Zero(t, ds.Len())
	assert.Empty(t, ds.Units())
	lo, hi := ds.YearRange()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
