package dashboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimedash/internal/core"
	"crimedash/internal/dataset"
	"crimedash/internal/dataset/datasettest"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "N/A", FormatAverage(0, false, "N/A"))
	assert.Equal(t, "38", FormatAverage(230.0/6.0, true, "N/A"))
	assert.Equal(t, "2", FormatAverage(2.5, true, "N/A"))
	assert.Equal(t, "1,236", FormatAverage(1235.5, true, "N/A"))
}

func TestSummarizeCards(t *testing.T) {
	ds := datasettest.Sample()
	d := BuiltinDefaults()

	cards := Summarize(ds, core.Selection{Units: []string{"DMP"}, YearFrom: 2022, YearTo: 2022}, d)
	assert.Equal(t, Cards{TotalCases: "112", AvgMonthly: "56", PeakCrime: core.Theft, Units: "1"}, cards)

	cards = Summarize(ds, core.Selection{Units: []string{}, YearFrom: 2021, YearTo: 2025}, d)
	assert.Equal(t, Cards{TotalCases: "0", AvgMonthly: "N/A", PeakCrime: "-", Units: "0"}, cards)
}

func TestSummaryCardsIgnoreCategorySelection(t *testing.T) {
	ds := datasettest.Sample()
	sel := core.Selection{Units: []string{"DMP"}, YearFrom: 2022, YearTo: 2022, Categories: []string{core.Murder}}
	// Murder alone would win a restricted peak; the card still reports Theft.
	assert.Equal(t, core.Theft, Summarize(ds, sel, BuiltinDefaults()).PeakCrime)
}

func TestRenderOverview(t *testing.T) {
	ds := datasettest.Sample()
	sel := core.Selection{
		Units: []string{"DMP"}, YearFrom: 2022, YearTo: 2022,
		Categories: []string{core.Murder, core.Theft},
	}
	out, err := Render(ds, sel, TabOverview, BuiltinDefaults())
	require.NoError(t, err)
	assert.Equal(t, TabOverview, out.Tab)
	require.Len(t, out.Figures, 2)

	pie := out.Figures[0]
	assert.Equal(t, "Crime Type Distribution", pie.Title)
	require.Len(t, pie.Series[0].Points, 2)
	assert.Equal(t, core.Murder, pie.Series[0].Points[0].Label)
	assert.Equal(t, 21.0, pie.Series[0].Points[0].Value)
	assert.Equal(t, core.Theft, pie.Series[0].Points[1].Label)
	assert.Equal(t, 45.0, pie.Series[0].Points[1].Value)

	trend := out.Figures[1]
	assert.Equal(t, "Monthly Crime Trend", trend.Title)
	assert.Len(t, trend.Series[0].Points, 2)
	assert.Nil(t, out.Table)
}

func TestRenderPieFallback(t *testing.T) {
	out, err := Render(datasettest.Sample(), BuiltinDefaults().Selection(), "tab-overview", BuiltinDefaults())
	require.NoError(t, err)
	assert.Equal(t, TabOverview, out.Tab)

	noCats := BuiltinDefaults().Selection()
	noCats.Categories = nil
	out, err = Render(datasettest.Sample(), noCats, TabOverview, BuiltinDefaults())
	require.NoError(t, err)
	var labels []string
	for _, p := range out.Figures[0].Series[0].Points {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, core.Categories()[:5], labels)
}

func TestRenderTrendsFallback(t *testing.T) {
	sel := BuiltinDefaults().Selection()
	sel.Categories = []string{"Unknown"}
	out, err := Render(datasettest.Sample(), sel, TabTrends, BuiltinDefaults())
	require.NoError(t, err)
	require.Len(t, out.Figures, 1)
	var names []string
	for _, s := range out.Figures[0].Series {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{core.Murder, core.Robbery, core.Theft}, names)
	assert.Equal(t, 500, out.Figures[0].Height)
}

func TestRenderAnalysis(t *testing.T) {
	d := BuiltinDefaults()
	d.TopUnitLimit = 1
	sel := core.Selection{Units: []string{"DMP", "CMP", "RMP", "KMP"}, YearFrom: 2021, YearTo: 2025}
	out, err := Render(datasettest.Sample(), sel, TabAnalysis, d)
	require.NoError(t, err)
	require.Len(t, out.Figures, 2)
	assert.Equal(t, "Seasonal Patterns", out.Figures[0].Title)
	assert.Len(t, out.Figures[0].Series[0].Points, 5)
	assert.Equal(t, "Top 10 Police Units", out.Figures[1].Title)
	require.Len(t, out.Figures[1].Series[0].Points, 1)
	assert.Equal(t, "DMP", out.Figures[1].Series[0].Points[0].Label)
}

func TestRenderData(t *testing.T) {
	d := BuiltinDefaults()
	d.PreviewRows = 3
	sel := core.Selection{Units: []string{"DMP", "CMP"}, YearFrom: 2021, YearTo: 2025}
	out, err := Render(datasettest.Sample(), sel, TabData, d)
	require.NoError(t, err)
	require.NotNil(t, out.Table)
	assert.Empty(t, out.Figures)
	assert.Equal(t, 3, out.Table.Shown)
	assert.Equal(t, 7, out.Table.Total)
	assert.Equal(t, "Showing 3 rows", out.Table.Caption)
	assert.Len(t, out.Table.Columns, core.NumCategories+6)
	assert.Equal(t, []string{core.ColumnTotal, "Date", "Month_Num"}, out.Table.Columns[core.NumCategories+3:])
	first := out.Table.Rows[0]
	assert.Len(t, first, len(out.Table.Columns))
	assert.Equal(t, []string{"2021", "January", "DMP"}, first[:3])
	assert.Equal(t, []string{"35", "2021-01-01", "1"}, first[len(first)-3:])
}

func TestRenderEmptySelection(t *testing.T) {
	sel := core.Selection{Units: []string{}, YearFrom: 2021, YearTo: 2025}
	for _, tab := range Tabs() {
		out, err := Render(datasettest.Sample(), sel, tab, BuiltinDefaults())
		require.NoError(t, err, tab)
		assert.Equal(t, "0", out.Cards.TotalCases)
		assert.Equal(t, "-", out.Cards.PeakCrime)
		if tab == TabData {
			assert.Equal(t, 0, out.Table.Total)
		}
	}
}

func TestRenderUnknownTab(t *testing.T) {
	_, err := Render(datasettest.Sample(), BuiltinDefaults().Selection(), "maps", BuiltinDefaults())
	assert.True(t, errors.Is(err, ErrUnknownTab))
}

func TestControlOptions(t *testing.T) {
	opts := ControlOptions(datasettest.Sample(), BuiltinDefaults())
	assert.Equal(t, []string{"CMP", "DMP", "KMP", "RMP"}, opts.Units)
	assert.Equal(t, core.Categories(), opts.Categories)
	assert.Equal(t, 2021, opts.YearMin)
	assert.Equal(t, 2023, opts.YearMax)
	assert.Equal(t, []int{2021, 2022, 2023}, opts.Years)
	assert.Len(t, opts.Tabs, 4)

	empty := ControlOptions(dataset.New("empty", nil), BuiltinDefaults())
	assert.Empty(t, empty.Units)
}

func TestBuiltinDefaultsAreValid(t *testing.T) {
	d := BuiltinDefaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, []string{"DMP", "CMP"}, d.Units)
	assert.Equal(t, 2021, d.YearFrom)
	assert.Equal(t, 2024, d.YearTo)
	assert.Equal(t, []string{core.Dacoity, core.Robbery, core.Murder, core.SpeedyTrial, core.Riot}, d.PieCategories)
	assert.Equal(t, TabOverview, d.DefaultTab())
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
units: [RMP]
year_from: 2022
year_to: 2023
top_unit_limit: 5
default_tab: trends
`), 0o644))

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RMP"}, d.Units)
	assert.Equal(t, 2022, d.YearFrom)
	assert.Equal(t, 5, d.TopUnitLimit)
	assert.Equal(t, TabTrends, d.DefaultTab())
	assert.Equal(t, 50, d.PreviewRows, "absent keys keep built-in values")
	assert.Equal(t, "N/A", d.Undefined)
}

func TestLoadDefaultsErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := LoadDefaults(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadDefaults(write("bad.yaml", "units: [unclosed"))
	assert.Error(t, err)

	_, err = LoadDefaults(write("inverted.yaml", "year_from: 2025\nyear_to: 2021\n"))
	assert.ErrorContains(t, err, "year_from")

	_, err = LoadDefaults(write("cats.yaml", "trend_fallback: [Jaywalking]\n"))
	assert.ErrorContains(t, err, "trend_fallback")

	d, err := LoadDefaults("")
	require.NoError(t, err)
	assert.Equal(t, BuiltinDefaults(), d)
}

func TestDefaultsSelectionIsACopy(t *testing.T) {
	d := BuiltinDefaults()
	sel := d.Selection()
	sel.Units[0] = "XXX"
	assert.Equal(t, "DMP", d.Units[0])
}
