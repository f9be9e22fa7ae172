// Package datasettest provides a small, fully known crime table for tests in
// other packages.
package datasettest

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"crimedash/internal/core"
	"crimedash/internal/dataset"
)

// Rec builds a record whose Total equals the sum of counts.
func Rec(unit string, year int, month time.Month, counts map[string]int64) core.Record {
	r := core.Record{Unit: unit, Year: year, Month: month}
	for cat, n := range counts {
		r.Counts[core.CategoryIndex(cat)] = n
	}
	r.Total = r.CategorySum()
	return r
}

// Records returns the fixture rows in source order.
//
//	DMP 2021: Jan 35, Feb 33        DMP 2022: Jan 82, Mar 30
//	CMP 2021: Jan 10                CMP 2022: Jan 24   CMP 2023: Jun 7
//	RMP 2022: Mar 3                 KMP 2023: Dec 6
func Records() []core.Record {
	return []core.Record{
		Rec("DMP", 2021, time.January, map[string]int64{core.Murder: 10, core.Theft: 20, core.Robbery: 5}),
		Rec("DMP", 2021, time.February, map[string]int64{core.Murder: 8, core.Theft: 25}),
		Rec("DMP", 2022, time.January, map[string]int64{core.Murder: 12, core.Theft: 30, core.Narcotics: 40}),
		Rec("DMP", 2022, time.March, map[string]int64{core.Murder: 9, core.Theft: 15, core.Robbery: 6}),
		Rec("CMP", 2021, time.January, map[string]int64{core.Murder: 3, core.Theft: 7}),
		Rec("CMP", 2022, time.January, map[string]int64{core.Murder: 4, core.Theft: 9, core.Narcotics: 11}),
		Rec("CMP", 2023, time.June, map[string]int64{core.Robbery: 2, core.Theft: 5}),
		Rec("RMP", 2022, time.March, map[string]int64{core.Dacoity: 1, core.Riot: 2}),
		Rec("KMP", 2023, time.December, map[string]int64{core.Smuggling: 6}),
	}
}

// Sample returns the fixture as a Dataset.
func Sample() *dataset.Dataset {
	return dataset.New("fixture", Records())
}

// Header returns the source header row in canonical column order.
func Header() []string {
	h := []string{core.ColumnYear, core.ColumnMonth, core.ColumnUnit}
	h = append(h, core.Categories()...)
	return append(h, core.ColumnTotal)
}

// Rows renders records as a header plus string rows, months spelled out.
func Rows(records []core.Record) [][]string {
	out := [][]string{Header()}
	for _, r := range records {
		row := []string{strconv.Itoa(r.Year), r.Month.String(), r.Unit}
		for _, c := range r.Counts {
			row = append(row, strconv.FormatInt(c, 10))
		}
		row = append(row, strconv.FormatInt(r.Total, 10))
		out = append(out, row)
	}
	return out
}

// CSV renders records as CSV text.
func CSV(records []core.Record) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(Rows(records))
	return buf.Bytes()
}

// StaticSource serves fixed rows; Err, when set, is returned instead.
type StaticSource struct {
	Label string
	Data  [][]string
	Err   error
}

func (s StaticSource) Rows(_ context.Context) ([][]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}

func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}
