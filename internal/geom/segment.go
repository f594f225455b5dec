package geom

import "math"

// Segment is the line segment between two endpoints.
type Segment struct {
	A, B Point
}

// Seg returns the segment from a to b.
func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.DistanceTo(s.B)
}

// orientation classifies the turn a->b->c: +1 counter-clockwise,
// -1 clockwise, 0 collinear. Sign-of-cross-product predicate, so
// adjacency decisions near endpoints do not flip with rounding the way
// slope comparisons would.
func orientation(a, b, c Point) int {
	cross := b.Sub(a).Cross(c.Sub(a))
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether collinear point p lies on segment ab.
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// IntersectsSegment reports whether the two segments share a point.
// Collinear overlap and shared endpoints count as intersection.
func (s Segment) IntersectsSegment(o Segment) bool {
	o1 := orientation(s.A, s.B, o.A)
	o2 := orientation(s.A, s.B, o.B)
	o3 := orientation(o.A, o.B, s.A)
	o4 := orientation(o.A, o.B, s.B)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear cases: check the projected bounding boxes.
	if o1 == 0 && onSegment(s.A, s.B, o.A) {
		return true
	}
	if o2 == 0 && onSegment(s.A, s.B, o.B) {
		return true
	}
	if o3 == 0 && onSegment(o.A, o.B, s.A) {
		return true
	}
	if o4 == 0 && onSegment(o.A, o.B, s.B) {
		return true
	}
	return false
}

// DistanceToPoint returns the distance from p to the closest point on
// the segment.
func (s Segment) DistanceToPoint(p Point) float64 {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return s.A.DistanceTo(p)
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := s.A.Add(d.Scale(t))
	return closest.DistanceTo(p)
}

// DistanceToSegment returns the minimum distance between two segments,
// zero when they intersect.
func (s Segment) DistanceToSegment(o Segment) float64 {
	if s.IntersectsSegment(o) {
		return 0
	}
	return math.Min(
		math.Min(s.DistanceToPoint(o.A), s.DistanceToPoint(o.B)),
		math.Min(o.DistanceToPoint(s.A), o.DistanceToPoint(s.B)),
	)
}

// Translate returns the segment shifted by v.
func (s Segment) Translate(v Point) Segment {
	return Segment{A: s.A.Add(v), B: s.B.Add(v)}
}

// Bounds returns the segment's bounding rect.
func (s Segment) Bounds() Rect {
	return RectFromPoints(s.A, s.B)
}
