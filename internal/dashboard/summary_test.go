package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func summaryTab() *TabAgg {
	return &TabAgg{
		Tab:     MergedTab,
		Headers: []string{"Content:Connections", "Content:Comments"},
		Weeks: []WeekAgg{
			{
				Key: "2025-W47",
				Days: []DayRow{
					{Date: "2025-11-17", Sums: []float64{120, 8}},
					{Date: "2025-11-18", Sums: []float64{90, 4.5}},
				},
			},
			{
				Key: "2025-W48",
				Days: []DayRow{
					{Date: "2025-11-24", Sums: []float64{50, 1}},
				},
			},
		},
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSummarizePeriod(t *testing.T) {
	totals := SummarizePeriod(summaryTab(),
		day("2025-11-17"), day("2025-11-24"),
		[]string{"Content:Connections", "Content:Comments"})

	assert.Equal(t, 260.0, totals["Content:Connections"])
	assert.Equal(t, 13.5, totals["Content:Comments"])
}

func TestSummarizePeriod_InclusiveBounds(t *testing.T) {
	totals := SummarizePeriod(summaryTab(),
		day("2025-11-18"), day("2025-11-18"),
		[]string{"Content:Connections"})

	assert.Equal(t, 90.0, totals["Content:Connections"], "single-day range includes both endpoints")
}

func TestSummarizePeriod_SwapsReversedRange(t *testing.T) {
	forward := SummarizePeriod(summaryTab(),
		day("2025-11-17"), day("2025-11-24"), []string{"Content:Connections"})
	reversed := SummarizePeriod(summaryTab(),
		day("2025-11-24"), day("2025-11-17"), []string{"Content:Connections"})

	assert.Equal(t, forward, reversed)
}

func TestSummarizePeriod_UnknownFieldIsZero(t *testing.T) {
	totals := SummarizePeriod(summaryTab(),
		day("2025-11-17"), day("2025-11-24"),
		[]string{"Content:Connections", "No Such Field"})

	assert.Equal(t, 260.0, totals["Content:Connections"])
	assert.Equal(t, 0.0, totals["No Such Field"], "unresolved fields report zero, not an error")
}

func TestSummarizePeriod_EmptyRange(t *testing.T) {
	totals := SummarizePeriod(summaryTab(),
		day("2026-01-01"), day("2026-01-31"),
		[]string{"Content:Connections"})

	assert.Equal(t, 0.0, totals["Content:Connections"])
}
