// Package charts turns aggregates into chart descriptions that a browser
// plotting library can draw without further computation.
package charts

import (
	"math"
	"strconv"

	"crimedash/internal/core"
)

// Chart kinds.
const (
	KindPie  = "pie"
	KindLine = "line"
	KindBar  = "bar"
)

// Figure describes one chart.
type Figure struct {
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	XAxis       string   `json:"xAxis,omitempty"`
	YAxis       string   `json:"yAxis,omitempty"`
	Orientation string   `json:"orientation,omitempty"` // "h" for horizontal bars
	Mode        string   `json:"mode,omitempty"`        // "lines" or "lines+markers"
	HoverMode   string   `json:"hoverMode,omitempty"`
	Height      int      `json:"height"`
	Series      []Series `json:"series"`
	Colors      []string `json:"colors,omitempty"`
	ColorScale  string   `json:"colorScale,omitempty"`
	TickLabels  []string `json:"tickLabels,omitempty"`
	ShowLegend  bool     `json:"showLegend"`
}

// Series is one named trace.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
	Color  string  `json:"color,omitempty"`
}

// Point is one data point. X carries a date (YYYY-MM-DD) or month number
// for line charts; Label carries a category or unit name.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     string  `json:"x,omitempty"`
	Value float64 `json:"value"`
}

const (
	defaultHeight = 400
	trendsHeight  = 500
	dateLayout    = "2006-01-02"
)

// Default color palette for line series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Qualitative palette for pie slices.
var pieColors = []string{
	"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3", "#FDB462",
	"#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
}

var monthTicks = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// CategoryPie shows each category's share of the selected total.
func CategoryPie(totals []core.CategoryTotal) Figure {
	points := make([]Point, 0, len(totals))
	for _, t := range totals {
		points = append(points, Point{Label: t.Category, Value: float64(t.Total)})
	}
	return Figure{
		Kind:       KindPie,
		Title:      "Crime Type Distribution",
		Height:     defaultHeight,
		Series:     []Series{{Name: "Cases", Points: points}},
		Colors:     assignColors(pieColors, len(points)),
		ShowLegend: true,
	}
}

// MonthlyTrend plots total cases per month.
func MonthlyTrend(points []core.Point) Figure {
	return Figure{
		Kind:      KindLine,
		Title:     "Monthly Crime Trend",
		XAxis:     "Date",
		YAxis:     "Total Cases",
		Mode:      "lines",
		HoverMode: "x unified",
		Height:    defaultHeight,
		Series:    []Series{{Name: "Total Cases", Points: datePoints(points), Color: defaultColors[0]}},
	}
}

// TopUnits is a horizontal bar chart of the busiest units, largest first.
func TopUnits(units []core.UnitTotal) Figure {
	points := make([]Point, 0, len(units))
	for _, u := range units {
		points = append(points, Point{Label: u.Unit, Value: float64(u.Total)})
	}
	return Figure{
		Kind:        KindBar,
		Title:       "Top 10 Police Units",
		XAxis:       "Total Cases",
		YAxis:       "Unit",
		Orientation: "h",
		Height:      defaultHeight,
		Series:      []Series{{Name: "Total Cases", Points: points}},
		ColorScale:  "Viridis",
	}
}

// CrimeTrends draws one line per category.
func CrimeTrends(series []core.CategorySeries) Figure {
	out := make([]Series, 0, len(series))
	for i, s := range series {
		out = append(out, Series{
			Name:   s.Category,
			Points: datePoints(s.Points),
			Color:  defaultColors[i%len(defaultColors)],
		})
	}
	return Figure{
		Kind:       KindLine,
		Title:      "Crime Trends Over Time",
		XAxis:      "Date",
		YAxis:      "Cases",
		Mode:       "lines+markers",
		HoverMode:  "x unified",
		Height:     trendsHeight,
		Series:     out,
		Colors:     assignColors(defaultColors, len(out)),
		ShowLegend: true,
	}
}

// SeasonalPatterns plots the average per calendar month. Months without
// data are left out rather than drawn as zero.
func SeasonalPatterns(points [12]core.SeasonalPoint) Figure {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.OK {
			continue
		}
		out = append(out, Point{
			Label: monthTicks[p.Month-1],
			X:     strconv.Itoa(int(p.Month)),
			Value: roundTo2(p.Average),
		})
	}
	return Figure{
		Kind:       KindLine,
		Title:      "Seasonal Patterns",
		XAxis:      "Month",
		YAxis:      "Average Cases",
		Mode:       "lines+markers",
		Height:     defaultHeight,
		Series:     []Series{{Name: "Average Cases", Points: out, Color: defaultColors[0]}},
		TickLabels: append([]string(nil), monthTicks...),
	}
}

func datePoints(points []core.Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{X: p.Date.Format(dateLayout), Value: float64(p.Value)})
	}
	return out
}

func assignColors(palette []string, count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
