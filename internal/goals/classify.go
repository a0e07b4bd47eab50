package goals

import "kpiboard/internal/agg"

// GoalFunc resolves the weekly goal for a base column label. ok=false means
// the column has no goal and stays unclassified.
type GoalFunc func(label string, week agg.WeekID) (float64, bool)

// Classify bands every column of a week bucket against its goal, one status
// per header. Part columns and columns without a goal stay StatusNone.
// Buckets strictly after nowWeek are suppressed entirely so the UI never
// colors a week before its data exists; weeks at or before nowWeek classify
// normally, including zero actuals (ratio 0 is red, not blank).
func Classify(bucket agg.WeekBucket, headers []string, resolve GoalFunc, nowWeek agg.WeekID) []Status {
	statuses := make([]Status, len(headers))
	if bucket.ID() > nowWeek {
		return statuses
	}

	for i, h := range headers {
		label := ClassifyLabel(h)
		if label.IsPart() || label.Base == "" {
			continue
		}
		goal, ok := resolve(label.Base, bucket.ID())
		if !ok {
			continue
		}
		var actual float64
		if i < len(bucket.Sums) {
			actual = bucket.Sums[i]
		}
		statuses[i] = StatusFor(actual, goal)
	}
	return statuses
}
