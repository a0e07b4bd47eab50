package goals

import (
	"testing"

	"kpiboard/internal/agg"
)

func classifyResolver() GoalFunc {
	goals := map[string]float64{"Connections": 200, "Comments": 100}
	return func(label string, week agg.WeekID) (float64, bool) {
		g, ok := goals[label]
		return g, ok
	}
}

func TestClassify(t *testing.T) {
	bucket := agg.WeekBucket{
		Year: 2025,
		Week: 47,
		Sums: []float64{180, 45, 12, 7},
	}
	headers := []string{"Connections", "Comments", "J_Comments", "Posts"}

	statuses := Classify(bucket, headers, classifyResolver(), agg.NewWeekID(2025, 48))

	want := []Status{StatusGreen, StatusOrange, StatusNone, StatusNone}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("statuses[%d] (%s) = %q, want %q", i, headers[i], statuses[i], want[i])
		}
	}
}

func TestClassify_FutureWeekSuppressed(t *testing.T) {
	bucket := agg.WeekBucket{
		Year: 2025,
		Week: 50,
		Sums: []float64{999, 999},
	}
	headers := []string{"Connections", "Comments"}

	statuses := Classify(bucket, headers, classifyResolver(), agg.NewWeekID(2025, 49))

	for i, s := range statuses {
		if s != StatusNone {
			t.Errorf("future week statuses[%d] = %q, want none", i, s)
		}
	}
}

func TestClassify_CurrentWeekNotSuppressed(t *testing.T) {
	bucket := agg.WeekBucket{
		Year: 2025,
		Week: 49,
		Sums: []float64{0},
	}
	headers := []string{"Connections"}

	statuses := Classify(bucket, headers, classifyResolver(), agg.NewWeekID(2025, 49))

	// Zero actual in the live week is a real ratio of 0, not missing data.
	if statuses[0] != StatusRed {
		t.Errorf("current week zero actual = %q, want red", statuses[0])
	}
}

func TestClassify_YearBoundary(t *testing.T) {
	// 2025-W52 is in the past relative to 2026-W01 even though 52 > 1.
	bucket := agg.WeekBucket{Year: 2025, Week: 52, Sums: []float64{210}}
	statuses := Classify(bucket, []string{"Connections"}, classifyResolver(), agg.NewWeekID(2026, 1))
	if statuses[0] != StatusOver {
		t.Errorf("past year bucket = %q, want over", statuses[0])
	}
}

func TestClassify_MissingSumSlot(t *testing.T) {
	// More headers than sum columns: the overhang classifies as zero actual.
	bucket := agg.WeekBucket{Year: 2025, Week: 10, Sums: []float64{50}}
	headers := []string{"Connections", "Comments"}
	statuses := Classify(bucket, headers, classifyResolver(), agg.NewWeekID(2025, 20))
	if statuses[1] != StatusRed {
		t.Errorf("overhang column = %q, want red", statuses[1])
	}
}
