// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing dashboard control values from
// query strings. Parsing never fails: missing or malformed values fall back
// to the configured defaults so a bad URL still renders a dashboard.

package http

import (
	"net/url"
	"strconv"
	"strings"

	"crimedash/internal/core"
	"crimedash/internal/dashboard"
)

// Query parameter names accepted by the API.
const (
	ParamUnit     = "unit"
	ParamYearFrom = "year_from"
	ParamYearTo   = "year_to"
	ParamCategory = "category"
	ParamTab      = "tab"
)

// ParseSelection builds a Selection from query parameters.
//
// An absent parameter takes the default. A present list parameter with no
// usable values ("unit=") is the empty set, which filters everything out.
// Repeated parameters and comma-separated values are both accepted.
func ParseSelection(query url.Values, d dashboard.Defaults) core.Selection {
	sel := d.Selection()

	if query.Has(ParamUnit) {
		sel.Units = parseList(query[ParamUnit])
	}
	if query.Has(ParamCategory) {
		sel.Categories = parseList(query[ParamCategory])
	}
	sel.YearFrom = parseIntOr(query.Get(ParamYearFrom), sel.YearFrom)
	sel.YearTo = parseIntOr(query.Get(ParamYearTo), sel.YearTo)

	return sel
}

// ParseTabParam reads the tab parameter, falling back to the default tab.
// Unlike the selection, an unknown tab name is an error.
func ParseTabParam(query url.Values, d dashboard.Defaults) (dashboard.Tab, error) {
	v := sanitizeInput(query.Get(ParamTab))
	if v == "" {
		return d.DefaultTab(), nil
	}
	return dashboard.ParseTab(v)
}

// parseList flattens repeated and comma-separated values, dropping blanks
// and duplicates. The result is never nil.
func parseList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = sanitizeInput(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

func parseIntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
