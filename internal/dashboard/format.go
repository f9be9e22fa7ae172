package dashboard

import (
	"math"

	"github.com/dustin/go-humanize"

	"crimedash/internal/core"
)

// Cards holds the four formatted summary values.
type Cards struct {
	TotalCases string `json:"totalCases"`
	AvgMonthly string `json:"avgMonthly"`
	PeakCrime  string `json:"peakCrime"`
	Units      string `json:"units"`
}

// FormatCount groups thousands: 12345 -> "12,345".
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatAverage rounds half to even and groups thousands. Undefined
// averages become the placeholder.
func FormatAverage(v float64, ok bool, placeholder string) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return placeholder
	}
	return humanize.Comma(int64(math.RoundToEven(v)))
}

// FormatCards renders a summary for display.
func FormatCards(s core.Summary, d Defaults) Cards {
	peak := s.PeakCategory
	if s.Empty || peak == "" {
		peak = d.EmptyPeak
	}
	return Cards{
		TotalCases: FormatCount(s.TotalCases),
		AvgMonthly: FormatAverage(s.AvgMonthly, s.AvgMonthlyOK, d.Undefined),
		PeakCrime:  peak,
		Units:      FormatCount(int64(s.DistinctUnits)),
	}
}
