package block

import "math"

// HourRange is a half-open [Start, End) range of fractional hours.
type HourRange struct {
	Start float64
	End   float64
}

// NormalizeRange splits an hour range that wraps past midnight into its
// same-day pieces. A range with start > end becomes [start,24) and [0,end);
// anything else passes through unchanged, including zero-width ranges.
func NormalizeRange(start, end float64) []HourRange {
	if start > end {
		return []HourRange{{Start: start, End: 24}, {Start: 0, End: end}}
	}
	return []HourRange{{Start: start, End: end}}
}

// Overlaps reports whether two half-open hour ranges intersect.
// Ranges that merely touch at an endpoint do not overlap.
func Overlaps(a0, a1, b0, b1 float64) bool {
	return math.Max(a0, b0) < math.Min(a1, b1)
}

// IsEmpty returns true for a zero-width or inverted range.
func (r HourRange) IsEmpty() bool {
	return r.End <= r.Start
}

// OverlapsRange reports whether r intersects other under the half-open rule.
func (r HourRange) OverlapsRange(other HourRange) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}
