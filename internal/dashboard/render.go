// Package dashboard assembles the dashboard's output for one selection:
// summary cards plus the content of the active tab.
package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crimedash/internal/aggregate"
	"crimedash/internal/charts"
	"crimedash/internal/core"
	"crimedash/internal/dataset"
	"crimedash/internal/query"
)

// Tab names one content panel.
type Tab string

const (
	TabOverview Tab = "overview"
	TabTrends   Tab = "trends"
	TabAnalysis Tab = "analysis"
	TabData     Tab = "data"
)

var ErrUnknownTab = errors.New("unknown tab")

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabOverview, TabTrends, TabAnalysis, TabData}
}

// ParseTab accepts "overview" as well as the "tab-overview" form.
func ParseTab(s string) (Tab, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "tab-")
	for _, t := range Tabs() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Table is the raw-data preview.
type Table struct {
	Caption string     `json:"caption"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Total   int        `json:"total"`
}

// Output is everything the page needs after one interaction.
type Output struct {
	Tab     Tab             `json:"tab"`
	Cards   Cards           `json:"cards"`
	Figures []charts.Figure `json:"figures,omitempty"`
	Table   *Table          `json:"table,omitempty"`
}

// Summarize computes the formatted cards for sel. The peak is taken over
// every category; the category control only affects charts.
func Summarize(ds *dataset.Dataset, sel core.Selection, d Defaults) Cards {
	view := query.Apply(ds, sel)
	return FormatCards(aggregate.Summarize(view, core.Categories()), d)
}

// Render filters ds by sel once and builds the cards and the tab content.
// The only error is ErrUnknownTab.
func Render(ds *dataset.Dataset, sel core.Selection, tab Tab, d Defaults) (Output, error) {
	tab, err := ParseTab(string(tab))
	if err != nil {
		return Output{}, err
	}
	view := query.Apply(ds, sel)
	out := Output{
		Tab:   tab,
		Cards: FormatCards(aggregate.Summarize(view, core.Categories()), d),
	}

	switch tab {
	case TabOverview:
		out.Figures = []charts.Figure{
			charts.CategoryPie(aggregate.CategoryTotals(view, d.pieCategories(sel))),
			charts.MonthlyTrend(aggregate.MonthlySeries(view)),
		}
	case TabTrends:
		out.Figures = []charts.Figure{
			charts.CrimeTrends(aggregate.MonthlyCategorySeries(view, d.trendCategories(sel))),
		}
	case TabAnalysis:
		out.Figures = []charts.Figure{
			charts.SeasonalPatterns(aggregate.SeasonalAverage(view)),
			charts.TopUnits(aggregate.UnitTotals(view, d.TopUnitLimit)),
		}
	case TabData:
		out.Table = previewTable(view, d.PreviewRows)
	}
	return out, nil
}

const (
	columnDate     = "Date"
	columnMonthNum = "Month_Num"
)

// TableColumns is the column order of the data preview.
func TableColumns() []string {
	cols := []string{core.ColumnYear, core.ColumnMonth, core.ColumnUnit}
	cols = append(cols, core.Categories()...)
	return append(cols, core.ColumnTotal, columnDate, columnMonthNum)
}

func previewTable(view core.View, limit int) *Table {
	head := query.Head(view, limit)
	rows := make([][]string, 0, len(head))
	for _, r := range head {
		row := make([]string, 0, core.NumCategories+6)
		row = append(row, strconv.Itoa(r.Year), r.Month.String(), r.Unit)
		for _, c := range r.Counts {
			row = append(row, strconv.FormatInt(c, 10))
		}
		row = append(row,
			strconv.FormatInt(r.Total, 10),
			r.Date().Format("2006-01-02"),
			strconv.Itoa(int(r.Month)))
		rows = append(rows, row)
	}
	return &Table{
		Caption: fmt.Sprintf("Showing %d rows", len(rows)),
		Columns: TableColumns(),
		Rows:    rows,
		Shown:   len(rows),
		Total:   len(view),
	}
}

// Options describes the values the controls can take.
type Options struct {
	Units      []string `json:"units"`
	Categories []string `json:"categories"`
	YearMin    int      `json:"yearMin"`
	YearMax    int      `json:"yearMax"`
	Years      []int    `json:"years"`
	Tabs       []Tab    `json:"tabs"`
	Defaults   Defaults `json:"defaults"`
}

// ControlOptions lists units, categories and year bounds of ds alongside
// the defaults.
func ControlOptions(ds *dataset.Dataset, d Defaults) Options {
	lo, hi := ds.YearRange()
	return Options{
		Units:      ds.Units(),
		Categories: ds.Categories(),
		YearMin:    lo,
		YearMax:    hi,
		Years:      ds.Years(),
		Tabs:       Tabs(),
		Defaults:   d,
	}
}
