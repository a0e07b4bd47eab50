package agg

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat identifies the free-text date layout used by a source.
// The format is declared per source, never inferred from cell content.
type DateFormat int

const (
	// DotDMY matches "31.12.2025" (day first, dot separated).
	DotDMY DateFormat = iota
	// SlashMDY matches "12/31/2025" (month first, slash separated, legacy sources).
	SlashMDY
)

func (f DateFormat) layout() string {
	if f == SlashMDY {
		return "1/2/2006"
	}
	return "2.1.2006"
}

// ParseLocalDate parses a free-text date cell in the given format.
// Returns ok=false for anything that does not match the layout or does not
// form a valid calendar date (e.g. day 32). Manual spreadsheet entry makes
// both cases expected noise, so no error value is involved.
func ParseLocalDate(raw string, format DateFormat) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(format.layout(), s)
	if err != nil {
		return time.Time{}, false
	}
	// Two-digit years slip through time.Parse as years 1..99.
	if t.Year() < 1000 {
		return time.Time{}, false
	}
	return t, true
}

const dayLayout = "2006-01-02"

// FormatDay renders a calendar date as "YYYY-MM-DD".
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDay is the inverse of FormatDay. Round-trips exactly.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WeekID encodes an ISO week as isoYear*100+isoWeek so that week ranges can
// be compared numerically (202552 < 202601).
type WeekID int

// NewWeekID builds a WeekID from an ISO year and week number.
func NewWeekID(isoYear, isoWeek int) WeekID {
	return WeekID(isoYear*100 + isoWeek)
}

// WeekIDOf returns the WeekID of the ISO week containing t.
func WeekIDOf(t time.Time) WeekID {
	y, w := t.ISOWeek()
	return NewWeekID(y, w)
}

// Year returns the ISO year component.
func (w WeekID) Year() int { return int(w) / 100 }

// Week returns the ISO week component.
func (w WeekID) Week() int { return int(w) % 100 }

// Key renders the week as "YYYY-Www", e.g. "2025-W01".
func (w WeekID) Key() string {
	return fmt.Sprintf("%d-W%02d", w.Year(), w.Week())
}
