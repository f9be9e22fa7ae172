// Package core provides the crime table domain model and cell parsing.
//
// This file contains functions for parsing year, month and count cells as
// they appear in the source table.
package core

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

var monthNames = func() map[string]time.Month {
	m := make(map[string]time.Month, 24)
	for mo := time.January; mo <= time.December; mo++ {
		full := strings.ToLower(mo.String())
		m[full] = mo
		m[full[:3]] = mo
	}
	m["sept"] = time.September
	return m
}()

// ParseMonth converts a month cell into a time.Month.
//
// It accepts full English month names, three-letter abbreviations (both
// case-insensitive) and the numerals 1..12.
//
// Examples:
//
//	ParseMonth("January") -> time.January, nil
//	ParseMonth("feb")     -> time.February, nil
//	ParseMonth("12")      -> time.December, nil
//	ParseMonth("Smarch")  -> 0, ErrInvalidMonth
func ParseMonth(s string) (time.Month, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrInvalidMonth
	}
	if m, ok := monthNames[s]; ok {
		return m, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), nil
	}
	return 0, ErrInvalidMonth
}

// ParseYear converts a year cell. Values like "2021.0" produced by
// spreadsheet exports are accepted.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return 0, ErrInvalidYear
	}
	return y, nil
}

// ParseCount converts a count cell into a non-negative integer.
//
// Thousands separators (comma or underscore) and a trailing ".0" are
// tolerated. An empty cell is 0, matching how the dashboard sums missing
// values. Negative, fractional or non-numeric values are rejected.
//
// Examples:
//
//	ParseCount("1,234") -> 1234, nil
//	ParseCount("17.0")  -> 17, nil
//	ParseCount("")      -> 0, nil
//	ParseCount("-3")    -> 0, ErrInvalidCount
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidCount
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		if strings.Trim(frac, "0") != "" {
			return 0, ErrInvalidCount
		}
		s = s[:i]
	}
	if s == "" {
		return 0, ErrInvalidCount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidCount
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidCount
	}
	return n, nil
}
