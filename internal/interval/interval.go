// Package interval implements half-open time intervals and ordered,
// pairwise-disjoint interval sets. Sets are the unit all availability
// computations work on: a point or segment is free exactly on such a set.
package interval

import "math"

// Interval is a half-open time range [Start, End). End may be +Inf.
type Interval struct {
	Start float64
	End   float64
}

// Forever marks an unbounded interval end.
var Forever = math.Inf(1)

// Span returns the interval [start, end).
func Span(start, end float64) Interval {
	return Interval{Start: start, End: end}
}

// Always returns the interval [0, +Inf).
func Always() Interval {
	return Interval{Start: 0, End: Forever}
}

// Empty reports whether the interval contains no time instant.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Duration returns the interval length, +Inf for unbounded intervals.
func (iv Interval) Duration() float64 {
	if iv.Empty() {
		return 0
	}
	return iv.End - iv.Start
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t < iv.End
}

// Covers reports whether other lies entirely within iv.
func (iv Interval) Covers(other Interval) bool {
	if other.Empty() {
		return true
	}
	return iv.Start <= other.Start && other.End <= iv.End
}

// Overlaps reports whether the two intervals share at least one instant.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.Empty() || other.Empty() {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Intersect returns the overlap of two intervals, possibly empty.
func (iv Interval) Intersect(other Interval) Interval {
	return Interval{
		Start: math.Max(iv.Start, other.Start),
		End:   math.Min(iv.End, other.End),
	}
}

// Shift returns the interval translated by dt.
func (iv Interval) Shift(dt float64) Interval {
	return Interval{Start: iv.Start + dt, End: iv.End + dt}
}
