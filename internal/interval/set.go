package interval

import "sort"

// Set is an ordered sequence of pairwise-disjoint, non-empty intervals.
// All functions below preserve that invariant; construct sets through
// Normalize when the input ordering is unknown.
type Set []Interval

// Normalize sorts the intervals and merges overlapping or touching
// neighbours, dropping empty entries.
func Normalize(ivs []Interval) Set {
	cleaned := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.Empty() {
			cleaned = append(cleaned, iv)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	sort.Slice(cleaned, func(i, j int) bool {
		if cleaned[i].Start != cleaned[j].Start {
			return cleaned[i].Start < cleaned[j].Start
		}
		return cleaned[i].End < cleaned[j].End
	})

	out := Set{cleaned[0]}
	for _, iv := range cleaned[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Empty reports whether the set contains no time instant.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Contains reports whether t lies in one of the set's intervals.
func (s Set) Contains(t float64) bool {
	_, ok := s.At(t)
	return ok
}

// At returns the interval containing t, if any. Binary search over the
// ordered invariant.
func (s Set) At(t float64) (Interval, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].End > t })
	if i < len(s) && s[i].Contains(t) {
		return s[i], true
	}
	return Interval{}, false
}

// Covers reports whether query lies entirely within a single interval of
// the set. Partial coverage across a gap does not count.
func (s Set) Covers(query Interval) bool {
	if query.Empty() {
		return true
	}
	iv, ok := s.At(query.Start)
	return ok && iv.Covers(query)
}

// NextStart returns the start of the first interval beginning at or
// after t. Used by the search to generate wait-until-open successors.
func (s Set) NextStart(t float64) (float64, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Start >= t })
	if i < len(s) {
		return s[i].Start, true
	}
	return 0, false
}

// Union returns the set of instants contained in a or b.
func Union(a, b Set) Set {
	merged := make([]Interval, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return Normalize(merged)
}

// Intersect returns the set of instants contained in both a and b.
// Commutative and associative, so folds over many sets are order
// independent.
func Intersect(a, b Set) Set {
	var out Set
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		overlap := a[i].Intersect(b[j])
		if !overlap.Empty() {
			out = append(out, overlap)
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return out
}

// Complement returns horizon minus s.
func Complement(s Set, horizon Interval) Set {
	if horizon.Empty() {
		return nil
	}
	var out Set
	cursor := horizon.Start
	for _, iv := range s {
		if iv.End <= cursor {
			continue
		}
		if iv.Start >= horizon.End {
			break
		}
		if iv.Start > cursor {
			out = append(out, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if cursor < horizon.End {
		out = append(out, Interval{Start: cursor, End: horizon.End})
	}
	return out
}

// Clip restricts the set to the given horizon.
func (s Set) Clip(horizon Interval) Set {
	var out Set
	for _, iv := range s {
		clipped := iv.Intersect(horizon)
		if !clipped.Empty() {
			out = append(out, clipped)
		}
	}
	return out
}
