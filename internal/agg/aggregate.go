package agg

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// DailyRecord accumulates the numeric column sums of one calendar date,
// kept separately per source until the bucketer merges them.
type DailyRecord struct {
	Date time.Time
	Sums map[string][]float64
}

// SourceColumns describes the numeric column count contributed by one source
// (its date column excluded).
type SourceColumns struct {
	Source string
	Count  int
}

// ColumnLayout fixes the source order and per-source widths so that merged
// day vectors are deterministic regardless of map iteration.
type ColumnLayout []SourceColumns

// Width returns the total merged column count.
func (l ColumnLayout) Width() int {
	n := 0
	for _, s := range l {
		n += s.Count
	}
	return n
}

// MergedSums concatenates a record's per-source vectors in layout order.
// Sources without data on that day contribute zeros.
func (l ColumnLayout) MergedSums(rec DailyRecord) []float64 {
	out := make([]float64, 0, l.Width())
	for _, s := range l {
		v := rec.Sums[s.Source]
		if v == nil {
			v = make([]float64, s.Count)
		}
		out = append(out, v...)
	}
	return out
}

// ParseNumber parses a numeric cell. A comma decimal separator is accepted
// (European entry habit); empty or unparseable cells count as 0, never as an
// error.
func ParseNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// Aggregate walks the data rows of the projected tables and accumulates
// per-day, per-source column sums. Column 0 is the date column; rows whose
// date fails to parse are dropped. A date appearing in several rows of the
// same source sums up rather than overwriting. Records come back sorted
// ascending by date, which the week bucketer relies on.
func Aggregate(tables []ProjectedTable) ([]DailyRecord, ColumnLayout) {
	layout := make(ColumnLayout, 0, len(tables))
	for _, t := range tables {
		n := len(t.Headers) - 1
		if n < 0 {
			n = 0
		}
		layout = append(layout, SourceColumns{Source: t.Source, Count: n})
	}

	byDay := make(map[string]*DailyRecord)
	for ti, t := range tables {
		width := layout[ti].Count
		for _, row := range t.Rows {
			if len(row) == 0 {
				continue
			}
			day, ok := ParseLocalDate(row[0], t.Format)
			if !ok {
				continue
			}
			key := FormatDay(day)
			rec := byDay[key]
			if rec == nil {
				rec = &DailyRecord{Date: day, Sums: make(map[string][]float64, len(tables))}
				for _, s := range layout {
					rec.Sums[s.Source] = make([]float64, s.Count)
				}
				byDay[key] = rec
			}
			sums := rec.Sums[t.Source]
			for i := 0; i < width && i+1 < len(row); i++ {
				sums[i] += ParseNumber(row[i+1])
			}
		}
	}

	records := make([]DailyRecord, 0, len(byDay))
	for _, rec := range byDay {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, layout
}
