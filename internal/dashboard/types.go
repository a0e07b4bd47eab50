package dashboard

import (
	"time"

	"kpiboard/internal/goals"
)

// DayRow is the per-day breakdown inside a week aggregate.
type DayRow struct {
	Date string    `json:"date"`
	Sums []float64 `json:"sums"`
}

// WeekAgg is one ISO week of merged column sums, as served to the UI.
type WeekAgg struct {
	Key      string         `json:"key"`
	Year     int            `json:"year"`
	Week     int            `json:"week"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Sums     []float64      `json:"sums"`
	Days     []DayRow       `json:"days"`
	Statuses []goals.Status `json:"statuses"`
}

// TabAgg is the weekly aggregate of one logical tab. Bases runs parallel to
// Headers and holds each column's resolved base metric name: the column's own
// name for base columns, the matched base for part columns, empty when no
// base could be resolved. The UI groups part breakdowns under it.
type TabAgg struct {
	Tab     string    `json:"tab"`
	Range   string    `json:"range"`
	Headers []string  `json:"headers"`
	Bases   []string  `json:"bases"`
	Weeks   []WeekAgg `json:"weeks"`
}

// Payload is the full aggregate served to the dashboard UI.
type Payload struct {
	Tabs        []TabAgg  `json:"tabs"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Tab returns the named tab aggregate, or nil when absent.
func (p *Payload) Tab(name string) *TabAgg {
	for i := range p.Tabs {
		if p.Tabs[i].Tab == name {
			return &p.Tabs[i]
		}
	}
	return nil
}
