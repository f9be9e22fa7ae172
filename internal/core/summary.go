package core

import "time"

// Summary holds the four dashboard scalars for a view.
type Summary struct {
	TotalCases int64
	// AvgMonthly is the mean of per-(year, month) totals. It is undefined
	// for an empty view; AvgMonthlyOK is false in that case.
	AvgMonthly    float64
	AvgMonthlyOK  bool
	PeakCategory  string
	PeakValue     int64
	DistinctUnits int
	Empty         bool
}

// CategoryTotal is the summed count of one category over a view.
type CategoryTotal struct {
	Category string
	Total    int64
}

// Point is one value of a date-indexed series.
type Point struct {
	Date  time.Time
	Value int64
}

// UnitTotal is the summed Total_Cases of one police unit.
type UnitTotal struct {
	Unit  string
	Total int64
}

// CategorySeries is a date-indexed series for one category.
type CategorySeries struct {
	Category string
	Points   []Point
}

// SeasonalPoint is the mean Total_Cases for a calendar month across years.
type SeasonalPoint struct {
	Month   time.Month
	Average float64
	Rows    int
	OK      bool // false when no rows fall in this month
}
