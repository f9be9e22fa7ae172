package dashboard

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"crimedash/internal/core"
)

// Defaults gathers every fallback the dashboard applies. The zero value is
// not useful; start from BuiltinDefaults.
type Defaults struct {
	Units          []string `yaml:"units" json:"units"`
	YearFrom       int      `yaml:"year_from" json:"yearFrom"`
	YearTo         int      `yaml:"year_to" json:"yearTo"`
	Categories     []string `yaml:"categories" json:"categories"`
	PieCategories  []string `yaml:"pie_fallback" json:"pieFallback"`
	TrendFallback  []string `yaml:"trend_fallback" json:"trendFallback"`
	TopUnitLimit   int      `yaml:"top_unit_limit" json:"topUnitLimit"`
	PreviewRows    int      `yaml:"preview_rows" json:"previewRows"`
	Undefined      string   `yaml:"undefined_placeholder" json:"undefinedPlaceholder"`
	EmptyPeak      string   `yaml:"empty_peak_placeholder" json:"emptyPeakPlaceholder"`
	DefaultTabName string   `yaml:"default_tab" json:"defaultTab"`
}

// BuiltinDefaults returns the defaults used when no YAML file is configured.
func BuiltinDefaults() Defaults {
	return Defaults{
		Units:          []string{"DMP", "CMP"},
		YearFrom:       2021,
		YearTo:         2024,
		Categories:     []string{core.Murder, core.Robbery, core.Narcotics, core.Theft, core.WomanChildRepression},
		PieCategories:  core.Categories()[:5],
		TrendFallback:  []string{core.Murder, core.Robbery, core.Theft},
		TopUnitLimit:   10,
		PreviewRows:    50,
		Undefined:      "N/A",
		EmptyPeak:      "-",
		DefaultTabName: string(TabOverview),
	}
}

// LoadDefaults reads a YAML file over the built-in defaults. Keys absent
// from the file keep their built-in values. An empty path returns the
// built-in defaults unchanged.
func LoadDefaults(path string) (Defaults, error) {
	d := BuiltinDefaults()
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read dashboard defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parse dashboard defaults %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return Defaults{}, fmt.Errorf("dashboard defaults %s: %w", path, err)
	}
	return d, nil
}

// Validate reports every problem with d in one error.
func (d Defaults) Validate() error {
	var problems []string
	if d.YearFrom > d.YearTo {
		problems = append(problems, fmt.Sprintf("year_from %d is after year_to %d", d.YearFrom, d.YearTo))
	}
	lists := []struct {
		key   string
		names []string
	}{
		{"categories", d.Categories},
		{"pie_fallback", d.PieCategories},
		{"trend_fallback", d.TrendFallback},
	}
	for _, l := range lists {
		for _, c := range l.names {
			if !core.IsCategory(c) {
				problems = append(problems, fmt.Sprintf("%s: %q: %v", l.key, c, core.ErrUnknownCategory))
			}
		}
	}
	if len(core.FilterCategories(d.PieCategories)) == 0 {
		problems = append(problems, "pie_fallback must name at least one category")
	}
	if len(core.FilterCategories(d.TrendFallback)) == 0 {
		problems = append(problems, "trend_fallback must name at least one category")
	}
	if d.TopUnitLimit < 1 {
		problems = append(problems, "top_unit_limit must be at least 1")
	}
	if d.PreviewRows < 1 {
		problems = append(problems, "preview_rows must be at least 1")
	}
	if _, err := ParseTab(d.DefaultTabName); err != nil {
		problems = append(problems, fmt.Sprintf("default_tab: %v", err))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Selection returns the default selection.
func (d Defaults) Selection() core.Selection {
	return core.Selection{
		Units:      append([]string(nil), d.Units...),
		YearFrom:   d.YearFrom,
		YearTo:     d.YearTo,
		Categories: append([]string(nil), d.Categories...),
	}
}

// DefaultTab returns the configured initial tab.
func (d Defaults) DefaultTab() Tab {
	t, err := ParseTab(d.DefaultTabName)
	if err != nil {
		return TabOverview
	}
	return t
}

// pieCategories picks the selected categories or the pie fallback.
func (d Defaults) pieCategories(sel core.Selection) []string {
	if known := sel.KnownCategories(); len(known) > 0 {
		return known
	}
	return core.FilterCategories(d.PieCategories)
}

// trendCategories picks the selected categories or the trend fallback.
func (d Defaults) trendCategories(sel core.Selection) []string {
	if known := sel.KnownCategories(); len(known) > 0 {
		return known
	}
	return core.FilterCategories(d.TrendFallback)
}
