package dashboard

import (
	"time"

	"kpiboard/internal/agg"
)

// SummarizePeriod re-aggregates the already-bucketed day-level data over an
// inclusive date range, one total per requested field. No upstream fetch
// happens here. Unresolvable field names yield 0, not an error; a reversed
// range is swapped rather than rejected.
func SummarizePeriod(tab *TabAgg, start, end time.Time, fields []string) map[string]float64 {
	if start.After(end) {
		start, end = end, start
	}

	indices := make([]int, len(fields))
	for i, f := range fields {
		indices[i] = -1
		for j, h := range tab.Headers {
			if h == f {
				indices[i] = j
				break
			}
		}
	}

	totals := make(map[string]float64, len(fields))
	for _, f := range fields {
		totals[f] = 0
	}

	for _, wk := range tab.Weeks {
		for _, day := range wk.Days {
			d, ok := agg.ParseDay(day.Date)
			if !ok || d.Before(start) || d.After(end) {
				continue
			}
			for i, f := range fields {
				col := indices[i]
				if col < 0 || col >= len(day.Sums) {
					continue
				}
				totals[f] += day.Sums[col]
			}
		}
	}

	for f, v := range totals {
		totals[f] = agg.Round2(v)
	}
	return totals
}
