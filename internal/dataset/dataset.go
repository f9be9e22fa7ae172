// Package dataset loads the crime table once at startup and exposes it as an
// immutable value shared by every query.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"crimedash/internal/core"
)

// Source yields the raw table: a header row followed by data rows.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
	Name() string
}

// TotalsPolicy decides what to do when Total_Cases differs from the sum of
// the category columns.
type TotalsPolicy string

const (
	TotalsTrust     TotalsPolicy = "trust"
	TotalsStrict    TotalsPolicy = "strict"
	TotalsRecompute TotalsPolicy = "recompute"
)

// IsValid reports whether p is a known policy.
func (p TotalsPolicy) IsValid() bool {
	switch p {
	case TotalsTrust, TotalsStrict, TotalsRecompute:
		return true
	}
	return false
}

// Options controls loading.
type Options struct {
	TotalsPolicy TotalsPolicy
	Logger       *slog.Logger
}

// Stats describes what happened while loading.
type Stats struct {
	Rows            int
	TotalMismatches int
	// FirstMismatchRow is the 1-based source row of the first mismatch.
	FirstMismatchRow int
}

// Dataset is the loaded crime table. It is never modified after Load.
type Dataset struct {
	source  string
	records []core.Record
	units   []string
	minYear int
	maxYear int
	stats   Stats
}

// New builds a Dataset directly from records. The slice is copied.
func New(name string, records []core.Record) *Dataset {
	ds := &Dataset{
		source:  name,
		records: slices.Clone(records),
	}
	ds.index()
	ds.stats.Rows = len(ds.records)
	return ds
}

func (d *Dataset) index() {
	seen := make(map[string]struct{})
	for i, r := range d.records {
		if _, ok := seen[r.Unit]; !ok {
			seen[r.Unit] = struct{}{}
			d.units = append(d.units, r.Unit)
		}
		if i == 0 || r.Year < d.minYear {
			d.minYear = r.Year
		}
		if i == 0 || r.Year > d.maxYear {
			d.maxYear = r.Year
		}
	}
	sort.Strings(d.units)
}

// Source returns the name of the source the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record by value.
func (d *Dataset) At(i int) core.Record { return d.records[i] }

// All iterates the records in source order without exposing the backing slice.
func (d *Dataset) All() func(yield func(int, core.Record) bool) {
	return func(yield func(int, core.Record) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of every record.
func (d *Dataset) Records() []core.Record { return slices.Clone(d.records) }

// Categories returns the canonical category list.
func (d *Dataset) Categories() []string { return core.Categories() }

// Units returns the sorted distinct unit names.
func (d *Dataset) Units() []string { return slices.Clone(d.units) }

// YearRange returns the smallest and largest year present. Both are 0 for an
// empty dataset.
func (d *Dataset) YearRange() (int, int) { return d.minYear, d.maxYear }

// Years returns every year between the bounds that has at least one row.
func (d *Dataset) Years() []int {
	seen := make(map[int]struct{})
	for _, r := range d.records {
		seen[r.Year] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Stats returns load statistics.
func (d *Dataset) Stats() Stats { return d.stats }

// Load reads src, validates the schema and builds the Dataset. Any problem
// is reported as a *core.LoadError.
func Load(ctx context.Context, src Source, opts Options) (*Dataset, error) {
	if opts.TotalsPolicy == "" {
		opts.TotalsPolicy = TotalsTrust
	}
	if !opts.TotalsPolicy.IsValid() {
		return nil, fmt.Errorf("invalid totals policy %q", opts.TotalsPolicy)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := src.Name()
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &core.LoadError{Source: name, Err: core.ErrEmptySource}
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		var le *core.LoadError
		if errors.As(err, &le) {
			le.Source = name
		}
		return nil, err
	}

	ds := &Dataset{source: name, records: make([]core.Record, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, cols)
		if err != nil {
			err.Source = name
			err.Row = rowNum
			return nil, err
		}
		if sum := rec.CategorySum(); sum != rec.Total {
			if ds.stats.TotalMismatches == 0 {
				ds.stats.FirstMismatchRow = rowNum
			}
			ds.stats.TotalMismatches++
			switch opts.TotalsPolicy {
			case TotalsStrict:
				return nil, &core.LoadError{
					Source: name,
					Row:    rowNum,
					Column: core.ColumnTotal,
					Err:    fmt.Errorf("%w: reported %d, categories sum to %d", core.ErrTotalMismatch, rec.Total, sum),
				}
			case TotalsRecompute:
				rec.Total = sum
			}
		}
		ds.records = append(ds.records, rec)
	}
	ds.stats.Rows = len(ds.records)
	ds.index()

	if ds.stats.TotalMismatches > 0 {
		logger.WarnContext(ctx, "Total_Cases differs from category sum",
			"source", name,
			"rows", ds.stats.TotalMismatches,
			"first_row", ds.stats.FirstMismatchRow,
			"policy", string(opts.TotalsPolicy))
	}
	logger.InfoContext(ctx, "Dataset loaded",
		"source", name,
		"rows", ds.stats.Rows,
		"units", len(ds.units),
		"year_min", ds.minYear,
		"year_max", ds.maxYear)

	return ds, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
