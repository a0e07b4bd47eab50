package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kpiboard/internal/agg"
	"kpiboard/internal/cache"
	"kpiboard/internal/goals"
	"kpiboard/internal/kanban"
	"kpiboard/internal/sheets"

	"github.com/rs/zerolog/log"
)

// ErrMissingSheet classifies an operator mistake: a requested dataset has no
// configured spreadsheet id. Surfaced as a 500-class failure, never retried
// against stale cache.
var ErrMissingSheet = errors.New("missing sheet configuration")

// MergedTab is the name of the synthetic tab combining all numeric sources.
const MergedTab = "Merged"

// sheetBaseURL prefixes a spreadsheet id to form its browser URL.
const sheetBaseURL = "https://docs.google.com/spreadsheets/d/"

// Config describes which tabs and columns feed the dashboard. The column
// selection and the set of merged tabs are operator configuration, not
// hard-coded logic.
type Config struct {
	SpreadsheetID string
	Tabs          []string
	MergeTabs     []string
	Columns       agg.ColumnSelection
	TrackerBoard  string
	YearSheets    map[string]string
}

// DefaultConfig mirrors the workbook layout the dashboard started with:
// Content and Outreach merge into the weekly aggregate, Termine passes
// through date-only.
func DefaultConfig() Config {
	return Config{
		Tabs:      []string{"Content", "Outreach", "Termine"},
		MergeTabs: []string{"Content", "Outreach"},
		Columns: agg.ColumnSelection{
			"Content":  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			"Outreach": {0, 1, 2, 3, 4, 5, 6, 7, 10},
			"Termine":  {0},
		},
	}
}

// Builder runs the aggregation pipeline (fetch, project, aggregate, bucket,
// classify) and fronts it with the read-through caches.
type Builder struct {
	sheets   sheets.Client
	tracker  kanban.Client
	resolver *goals.Resolver
	cfg      Config
	now      func() time.Time

	dash    *cache.Cache[*Payload]
	revenue *cache.Cache[*sheets.ValueRange]
}

// Option adjusts a Builder at construction.
type Option func(*Builder)

// WithClock injects the time source used for future-week suppression and
// payload timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder wires the pipeline. tracker may be nil when no board is
// configured.
func NewBuilder(sc sheets.Client, tracker kanban.Client, resolver *goals.Resolver, cfg Config, ttl cache.Config, opts ...Option) *Builder {
	b := &Builder{
		sheets:   sc,
		tracker:  tracker,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	clock := cache.WithClock[*Payload](b.now)
	b.dash = cache.New(ttl, func(ctx context.Context, _ string) (*Payload, error) {
		return b.buildDashboard(ctx)
	}, clock)
	b.revenue = cache.New(ttl, b.fetchRevenue, cache.WithClock[*sheets.ValueRange](b.now))
	return b
}

// Dashboard returns the cached aggregate payload, building it on demand.
func (b *Builder) Dashboard(ctx context.Context, force bool) (*Payload, error) {
	return b.dash.Get(ctx, "dashboard", force)
}

// Revenue returns the cached raw values of the per-year revenue sheet.
func (b *Builder) Revenue(ctx context.Context, year string, force bool) (*sheets.ValueRange, error) {
	return b.revenue.Get(ctx, year, force)
}

func (b *Builder) fetchRevenue(ctx context.Context, year string) (*sheets.ValueRange, error) {
	id, ok := b.cfg.YearSheets[year]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: no sheet id for year %s", ErrMissingSheet, year)
	}
	return b.sheets.Values(ctx, id, "Revenue")
}

func (b *Builder) buildDashboard(ctx context.Context) (*Payload, error) {
	ranges := make([]string, len(b.cfg.Tabs))
	for i, tab := range b.cfg.Tabs {
		ranges[i] = tab + "!A1:K"
	}

	vrs, err := b.sheets.BatchValues(ctx, b.cfg.SpreadsheetID, ranges)
	if err != nil {
		return nil, err
	}

	projected := make(map[string]agg.ProjectedTable, len(vrs))
	for _, vr := range vrs {
		table := agg.RawTable{
			Source: vr.Tab(),
			Range:  vr.Range,
			Format: agg.DotDMY,
			Values: vr.Values,
		}
		projected[table.Source] = agg.Project(table, b.cfg.Columns)
	}

	// Merged headers carry their tab prefix; the date column is used for
	// bucketing but dropped from the label set.
	var merged []agg.ProjectedTable
	var headers []string
	for _, name := range b.cfg.MergeTabs {
		t, ok := projected[name]
		if !ok {
			continue
		}
		merged = append(merged, t)
		for i := 1; i < len(t.Headers); i++ {
			headers = append(headers, name+":"+t.Headers[i])
		}
	}

	if b.tracker != nil && b.cfg.TrackerBoard != "" {
		cards, err := b.tracker.ListCards(ctx, b.cfg.TrackerBoard)
		if err != nil {
			return nil, err
		}
		t := agg.Project(kanban.CardsToTable(cards), b.cfg.Columns)
		merged = append(merged, t)
		for i := 1; i < len(t.Headers); i++ {
			headers = append(headers, kanban.SourceName+":"+t.Headers[i])
		}
	}

	records, layout := agg.Aggregate(merged)
	buckets := agg.BucketWeeks(records, layout)
	nowWeek := agg.WeekIDOf(b.now())
	bases := b.resolveBases(headers)

	weeks := make([]WeekAgg, 0, len(buckets))
	for _, bkt := range buckets {
		days := make([]DayRow, len(bkt.Days))
		for i, d := range bkt.Days {
			days[i] = DayRow{Date: agg.FormatDay(d.Date), Sums: agg.Round2Slice(d.Sums)}
		}
		weeks = append(weeks, WeekAgg{
			Key:      bkt.Key(),
			Year:     bkt.Year,
			Week:     bkt.Week,
			Start:    agg.FormatDay(bkt.Start),
			End:      agg.FormatDay(bkt.End),
			Sums:     agg.Round2Slice(bkt.Sums),
			Days:     days,
			Statuses: goals.Classify(bkt, headers, b.resolver.ResolveGoal, nowWeek),
		})
	}

	mergedRange := ""
	for i, t := range merged {
		if i > 0 {
			mergedRange += " | "
		}
		mergedRange += t.Range
	}

	tabs := []TabAgg{{
		Tab:     MergedTab,
		Range:   mergedRange,
		Headers: headers,
		Bases:   bases,
		Weeks:   weeks,
	}}

	// Tabs outside the merge pass through as date-only placeholders.
	for _, name := range b.cfg.Tabs {
		if contains(b.cfg.MergeTabs, name) {
			continue
		}
		t := projected[name]
		tabs = append(tabs, TabAgg{Tab: name, Range: t.Range, Headers: []string{}, Bases: []string{}, Weeks: []WeekAgg{}})
	}

	log.Info().Int("weeks", len(weeks)).Int("sources", len(merged)).Msg("Dashboard payload built")
	return &Payload{Tabs: tabs, GeneratedAt: b.now()}, nil
}

// resolveBases maps every header onto its base metric name, once per payload
// build. Base columns keep their own stripped name; part columns resolve
// against the base names present in the header set, trying the alias table
// first and a substring scan second.
func (b *Builder) resolveBases(headers []string) []string {
	labels := make([]goals.Label, len(headers))
	var known []string
	for i, h := range headers {
		labels[i] = goals.ClassifyLabel(h)
		if !labels[i].IsPart() && labels[i].Base != "" {
			known = append(known, labels[i].Base)
		}
	}

	bases := make([]string, len(headers))
	for i, l := range labels {
		if l.IsPart() {
			bases[i] = b.resolver.ResolveBase(l.Base, known)
		} else {
			bases[i] = l.Base
		}
	}
	return bases
}

// CachedPayload returns the cached dashboard payload regardless of age,
// without triggering a fetch. Diagnostics only.
func (b *Builder) CachedPayload() (*Payload, bool) {
	return b.dash.Peek("dashboard")
}

// TrackerBoard fetches the configured tracker board's metadata, or nil when
// no tracker is wired.
func (b *Builder) TrackerBoard(ctx context.Context) (map[string]any, error) {
	if b.tracker == nil || b.cfg.TrackerBoard == "" {
		return nil, nil
	}
	return b.tracker.GetBoard(ctx, b.cfg.TrackerBoard)
}

// SheetURL returns the browser URL of a configured source document. doc
// selects the main workbook ("outreach", the default) or a per-year revenue
// sheet ("revenue" plus year).
func (b *Builder) SheetURL(doc, year string) (string, error) {
	switch doc {
	case "", "outreach":
		if b.cfg.SpreadsheetID == "" {
			return "", fmt.Errorf("%w: no spreadsheet id configured", ErrMissingSheet)
		}
		return sheetBaseURL + b.cfg.SpreadsheetID, nil
	case "revenue":
		id, ok := b.cfg.YearSheets[year]
		if !ok || id == "" {
			return "", fmt.Errorf("%w: no sheet id for year %s", ErrMissingSheet, year)
		}
		return sheetBaseURL + id, nil
	default:
		return "", fmt.Errorf("unknown document %q", doc)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
