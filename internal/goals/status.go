package goals

import "math"

// Status is the ordinal actual-vs-goal band used for at-a-glance coloring.
// The empty value means "unclassified" and serializes as JSON null.
type Status string

const (
	StatusNone   Status = ""
	StatusRed    Status = "red"
	StatusOrange Status = "orange"
	StatusYellow Status = "yellow"
	StatusGreen  Status = "green"
	StatusOver   Status = "over"
)

// Rank orders the bands red < orange < yellow < green < over for
// monotonicity checks. StatusNone ranks below all bands.
func (s Status) Rank() int {
	switch s {
	case StatusRed:
		return 0
	case StatusOrange:
		return 1
	case StatusYellow:
		return 2
	case StatusGreen:
		return 3
	case StatusOver:
		return 4
	default:
		return -1
	}
}

// MarshalJSON renders StatusNone as null so the UI sees the same shape the
// classifier produced.
func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusNone {
		return []byte("null"), nil
	}
	return []byte(`"` + string(s) + `"`), nil
}

// UnmarshalJSON accepts null as StatusNone.
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" {
		*s = StatusNone
		return nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		*s = Status(str[1 : len(str)-1])
	}
	return nil
}

// StatusForRatio bands an actual/goal ratio. Non-finite ratios (goal 0, NaN)
// are unclassifiable.
func StatusForRatio(ratio float64) Status {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return StatusNone
	}
	switch {
	case ratio < 0.30:
		return StatusRed
	case ratio < 0.60:
		return StatusOrange
	case ratio < 0.80:
		return StatusYellow
	case ratio <= 1.00:
		return StatusGreen
	default:
		return StatusOver
	}
}

// StatusFor classifies an actual weekly sum against its goal. A zero,
// negative or non-finite goal yields StatusNone.
func StatusFor(actual, goal float64) Status {
	if goal <= 0 || math.IsNaN(goal) || math.IsInf(goal, 0) {
		return StatusNone
	}
	return StatusForRatio(actual / goal)
}
