package dataset

import (
	"errors"
	"strings"

	"crimedash/internal/core"
)

// columns maps required fields to their positions in a source row.
type columns struct {
	year, month, unit, total int
	counts                   [core.NumCategories]int
}

func mapHeader(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	lookup := func(name string) (int, error) {
		if i, ok := pos[normalizeHeader(name)]; ok {
			return i, nil
		}
		return -1, &core.LoadError{Column: name, Err: core.ErrMissingColumn}
	}

	var c columns
	var err error
	if c.year, err = lookup(core.ColumnYear); err != nil {
		return c, err
	}
	if c.month, err = lookup(core.ColumnMonth); err != nil {
		return c, err
	}
	if c.unit, err = lookup(core.ColumnUnit); err != nil {
		return c, err
	}
	for i, cat := range core.Categories() {
		if c.counts[i], err = lookup(cat); err != nil {
			return c, err
		}
	}
	if c.total, err = lookup(core.ColumnTotal); err != nil {
		return c, err
	}
	return c, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func parseRow(row []string, c columns) (core.Record, *core.LoadError) {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	var rec core.Record
	var err error
	if rec.Year, err = core.ParseYear(cell(c.year)); err != nil {
		return rec, &core.LoadError{Column: core.ColumnYear, Err: err}
	}
	if rec.Month, err = core.ParseMonth(cell(c.month)); err != nil {
		return rec, &core.LoadError{Column: core.ColumnMonth, Err: err}
	}
	rec.Unit = strings.TrimSpace(cell(c.unit))
	if rec.Unit == "" {
		return rec, &core.LoadError{Column: core.ColumnUnit, Err: errors.New("empty unit")}
	}
	for i, cat := range core.Categories() {
		if rec.Counts[i], err = core.ParseCount(cell(c.counts[i])); err != nil {
			return rec, &core.LoadError{Column: cat, Err: err}
		}
	}
	if rec.Total, err = core.ParseCount(cell(c.total)); err != nil {
		return rec, &core.LoadError{Column: core.ColumnTotal, Err: err}
	}
	return rec, nil
}
