package core

import (
	"errors"
	"slices"
	"time"
)

// Canonical crime categories. The order is significant: it is the column
// order of the source table and the tie-break order for peak detection.
const (
	Dacoity              = "Dacoity"
	Robbery              = "Robbery"
	Murder               = "Murder"
	SpeedyTrial          = "Speedy_Trial"
	Riot                 = "Riot"
	WomanChildRepression = "Woman_Child_Repression"
	Kidnapping           = "Kidnapping"
	PoliceAssault        = "Police_Assault"
	Burglary             = "Burglary"
	Theft                = "Theft"
	OtherCases           = "Other_Cases"
	ArmsAct              = "Arms_Act"
	ExplosiveAct         = "Explosive_Act"
	Narcotics            = "Narcotics"
	Smuggling            = "Smuggling"
	RecoveryCases        = "Recovery_Cases"
)

// NumCategories is the number of tracked offense classes per record.
const NumCategories = 16

var categories = [NumCategories]string{
	Dacoity, Robbery, Murder, SpeedyTrial, Riot, WomanChildRepression,
	Kidnapping, PoliceAssault, Burglary, Theft, OtherCases, ArmsAct,
	ExplosiveAct, Narcotics, Smuggling, RecoveryCases,
}

var categoryIndex = func() map[string]int {
	m := make(map[string]int, NumCategories)
	for i, c := range categories {
		m[c] = i
	}
	return m
}()

// Source column names other than the category columns.
const (
	ColumnYear  = "Year"
	ColumnMonth = "Month"
	ColumnUnit  = "Unit"
	ColumnTotal = "Total_Cases"
)

type (
	// Record is one row of the crime table: a unit's counts for one month.
	Record struct {
		Unit   string
		Year   int
		Month  time.Month
		Counts [NumCategories]int64
		Total  int64 // reported Total_Cases
	}

	// Selection parameterizes a query. Built per request.
	Selection struct {
		Units      []string
		YearFrom   int
		YearTo     int
		Categories []string
	}

	// View is the row subset produced by applying a Selection to a dataset.
	View []Record
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidCount    = errors.New("invalid count")
)

// Categories returns a copy of the canonical category list.
func Categories() []string {
	out := make([]string, NumCategories)
	copy(out, categories[:])
	return out
}

// CategoryIndex returns the canonical position of name, or -1.
func CategoryIndex(name string) int {
	if i, ok := categoryIndex[name]; ok {
		return i
	}
	return -1
}

// IsCategory reports whether name is one of the canonical categories.
func IsCategory(name string) bool {
	_, ok := categoryIndex[name]
	return ok
}

// Date returns the first day of the record's month in UTC.
func (r Record) Date() time.Time {
	return time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Count returns the record's count for the named category, 0 if unknown.
func (r Record) Count(category string) int64 {
	i := CategoryIndex(category)
	if i < 0 {
		return 0
	}
	return r.Counts[i]
}

// CategorySum adds up all sixteen category counts.
func (r Record) CategorySum() int64 {
	var sum int64
	for _, c := range r.Counts {
		sum += c
	}
	return sum
}

// Validate checks the record's own invariants. It does not compare Total
// with CategorySum; that is a dataset-level policy.
func (r Record) Validate() error {
	if r.Month < time.January || r.Month > time.December {
		return ErrInvalidMonth
	}
	if r.Year <= 0 {
		return ErrInvalidYear
	}
	for _, c := range r.Counts {
		if c < 0 {
			return ErrInvalidCount
		}
	}
	if r.Total < 0 {
		return ErrInvalidCount
	}
	return nil
}

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v) }

// HasUnit reports whether the selection includes unit.
func (s Selection) HasUnit(unit string) bool {
	return slices.Contains(s.Units, unit)
}

// KnownCategories returns the selected categories that are canonical, in
// selection order with duplicates removed.
func (s Selection) KnownCategories() []string {
	return FilterCategories(s.Categories)
}

// FilterCategories keeps known category names in input order, dropping
// duplicates and unknown names.
func FilterCategories(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !IsCategory(n) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
