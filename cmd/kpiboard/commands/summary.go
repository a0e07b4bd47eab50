package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"kpiboard/internal/agg"
	"kpiboard/internal/dashboard"
	"kpiboard/internal/goals"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	summaryStart  string
	summaryEnd    string
	summaryFields []string
	summaryTab    string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print weekly sums and period totals for selected columns",
	Run: func(cmd *cobra.Command, args []string) {
		runSummary()
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "period start (YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryEnd, "end", "", "period end (YYYY-MM-DD)")
	summaryCmd.Flags().StringSliceVar(&summaryFields, "field", nil, "column label to total, repeatable")
	summaryCmd.Flags().StringVar(&summaryTab, "tab", dashboard.MergedTab, "tab to summarize")
	rootCmd.AddCommand(summaryCmd)
}

var statusColors = map[goals.Status]*color.Color{
	goals.StatusRed:    color.New(color.FgRed),
	goals.StatusOrange: color.New(color.FgMagenta),
	goals.StatusYellow: color.New(color.FgYellow),
	goals.StatusGreen:  color.New(color.FgGreen),
	goals.StatusOver:   color.New(color.FgCyan, color.Bold),
}

func colorize(value float64, status goals.Status) string {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if c, ok := statusColors[status]; ok {
		return c.Sprint(text)
	}
	return text
}

func runSummary() {
	payload, err := newBuilder().Dashboard(context.Background(), false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build dashboard payload")
	}

	tab := payload.Tab(summaryTab)
	if tab == nil {
		log.Fatal().Str("tab", summaryTab).Msg("Tab not found")
	}

	fields := summaryFields
	if len(fields) == 0 {
		fields = tab.Headers
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

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(append([]string{"Week", "Start", "End"}, fields...))

	var data [][]string
	for _, wk := range tab.Weeks {
		row := []string{wk.Key, wk.Start, wk.End}
		for _, col := range indices {
			if col < 0 || col >= len(wk.Sums) {
				row = append(row, "-")
				continue
			}
			status := goals.StatusNone
			if col < len(wk.Statuses) {
				status = wk.Statuses[col]
			}
			row = append(row, colorize(wk.Sums[col], status))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		log.Fatal().Err(err).Msg("Failed to build table")
	}
	if err := table.Render(); err != nil {
		log.Fatal().Err(err).Msg("Failed to render table")
	}

	if summaryStart != "" && summaryEnd != "" {
		start, okStart := agg.ParseDay(summaryStart)
		end, okEnd := agg.ParseDay(summaryEnd)
		if !okStart || !okEnd {
			log.Fatal().Msg("start and end must be YYYY-MM-DD")
		}
		totals := dashboard.SummarizePeriod(tab, start, end, fields)
		fmt.Printf("\nTotals %s to %s:\n", summaryStart, summaryEnd)
		for _, f := range fields {
			fmt.Printf("  %-28s %v\n", f, totals[f])
		}
	}
}
