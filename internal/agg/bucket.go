package agg

import (
	"math"
	"sort"
	"time"
)

// DaySums is the day-level breakdown retained inside a week bucket.
type DaySums struct {
	Date time.Time
	Sums []float64
}

// WeekBucket groups the daily records of one ISO week. Start and End are the
// earliest and latest data dates in the bucket, not the calendar Monday and
// Sunday; a bucket starts later than the ISO week does when no data exists
// for the earlier days.
type WeekBucket struct {
	Year  int
	Week  int
	Start time.Time
	End   time.Time
	Sums  []float64
	Days  []DaySums
}

// ID returns the bucket's WeekID.
func (b WeekBucket) ID() WeekID { return NewWeekID(b.Year, b.Week) }

// Key returns the bucket's "YYYY-Www" label.
func (b WeekBucket) Key() string { return b.ID().Key() }

// BucketWeeks groups pre-sorted daily records into ISO-week buckets, merging
// each day's per-source vectors into one running sum per bucket. The caller
// guarantees ascending date order; it is not re-validated here, and unsorted
// input yields wrong Start/End tracking without crashing.
//
// Sums are accumulated with plain floating addition; display rounding is the
// payload builder's job.
func BucketWeeks(records []DailyRecord, layout ColumnLayout) []WeekBucket {
	width := layout.Width()
	buckets := make(map[WeekID]*WeekBucket)

	for _, rec := range records {
		y, w := rec.Date.ISOWeek()
		id := NewWeekID(y, w)
		b := buckets[id]
		if b == nil {
			b = &WeekBucket{
				Year:  y,
				Week:  w,
				Start: rec.Date,
				End:   rec.Date,
				Sums:  make([]float64, width),
			}
			buckets[id] = b
		}
		if rec.Date.Before(b.Start) {
			b.Start = rec.Date
		}
		if rec.Date.After(b.End) {
			b.End = rec.Date
		}

		day := layout.MergedSums(rec)
		b.Days = append(b.Days, DaySums{Date: rec.Date, Sums: day})
		for i, v := range day {
			b.Sums[i] += v
		}
	}

	out := make([]WeekBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Round2 applies the display rounding rule: integral values stay untouched
// (5.0 renders as 5), everything else rounds to two decimal places.
func Round2(x float64) float64 {
	if x == math.Trunc(x) {
		return x
	}
	return math.Round(x*100) / 100
}

// Round2Slice returns a rounded copy of sums.
func Round2Slice(sums []float64) []float64 {
	out := make([]float64, len(sums))
	for i, v := range sums {
		out[i] = Round2(v)
	}
	return out
}
