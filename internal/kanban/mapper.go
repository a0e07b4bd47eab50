package kanban

import "kpiboard/internal/agg"

// SourceName is the logical source name the tracker table contributes to the
// merged aggregation.
const SourceName = "Tracker"

// CardsToTable converts closed cards into a rows matrix the aggregation core
// understands: one row per closed card, date column first, a count of 1 in
// the single numeric column. Rows for the same day sum up downstream, so no
// pre-grouping happens here. Open cards and cards without a close date are
// skipped.
func CardsToTable(cards []Card) agg.RawTable {
	values := [][]any{{"Date", "Completed"}}
	for _, card := range cards {
		if !card.Closed || card.ClosedAt == "" {
			continue
		}
		values = append(values, []any{card.ClosedAt, "1"})
	}
	return agg.RawTable{
		Source: SourceName,
		Range:  SourceName,
		Format: agg.SlashMDY,
		Values: values,
	}
}
