package geom

import "math"

// Shape is the tagged union of the supported geometry kinds. Dispatch
// happens by explicit type switch in the free functions below, keeping
// the predicates in one place.
type Shape interface {
	shapeBounds() Rect
	shapeTranslate(v Point) Shape
}

func (p Point) shapeBounds() Rect   { return RectFromPoints(p) }
func (s Segment) shapeBounds() Rect { return s.Bounds() }
func (pg Polygon) shapeBounds() Rect {
	return pg.Bounds()
}

func (p Point) shapeTranslate(v Point) Shape    { return p.Add(v) }
func (s Segment) shapeTranslate(v Point) Shape  { return s.Translate(v) }
func (pg Polygon) shapeTranslate(v Point) Shape { return pg.Translate(v) }

// Bounds returns the shape's axis-aligned bounding rect.
func Bounds(s Shape) Rect {
	return s.shapeBounds()
}

// Translate returns the shape shifted by v.
func Translate(s Shape, v Point) Shape {
	return s.shapeTranslate(v)
}

// Distance returns the minimum distance between two shapes, zero when
// they touch or overlap.
func Distance(a, b Shape) float64 {
	switch x := a.(type) {
	case Point:
		switch y := b.(type) {
		case Point:
			return x.DistanceTo(y)
		case Segment:
			return y.DistanceToPoint(x)
		case Polygon:
			return y.DistanceToPoint(x)
		}
	case Segment:
		switch y := b.(type) {
		case Point:
			return x.DistanceToPoint(y)
		case Segment:
			return x.DistanceToSegment(y)
		case Polygon:
			return y.DistanceToSegment(x)
		}
	case Polygon:
		switch y := b.(type) {
		case Point:
			return x.DistanceToPoint(y)
		case Segment:
			return x.DistanceToSegment(y)
		case Polygon:
			if x.IntersectsPolygon(y) {
				return 0
			}
			min := math.Inf(1)
			for _, e := range y.Edges() {
				min = math.Min(min, x.DistanceToSegment(e))
			}
			return min
		}
	}
	return math.Inf(1)
}

// Intersects reports whether two shapes share a point.
func Intersects(a, b Shape) bool {
	switch x := a.(type) {
	case Point:
		switch y := b.(type) {
		case Point:
			return x == y
		case Segment:
			return orientation(y.A, y.B, x) == 0 && onSegment(y.A, y.B, x)
		case Polygon:
			return y.ContainsPoint(x)
		}
	case Segment:
		switch y := b.(type) {
		case Point:
			return Intersects(y, x)
		case Segment:
			return x.IntersectsSegment(y)
		case Polygon:
			return y.IntersectsSegment(x)
		}
	case Polygon:
		switch y := b.(type) {
		case Point, Segment:
			return Intersects(y, x)
		case Polygon:
			return x.IntersectsPolygon(y)
		}
	}
	return false
}
