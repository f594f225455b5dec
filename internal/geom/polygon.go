package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateGeometry marks a malformed shape, e.g. a polygon with
// fewer than three vertices. Matched with errors.Is.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Polygon is a simple polygon given by its vertex ring. The ring is
// implicitly closed; the last vertex connects back to the first.
type Polygon struct {
	Vertices []Point
}

// NewPolygon validates and returns a polygon over the given ring.
func NewPolygon(vertices []Point) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("polygon with %d vertices: %w", len(vertices), ErrDegenerateGeometry)
	}
	ring := make([]Point, len(vertices))
	copy(ring, vertices)
	return Polygon{Vertices: ring}, nil
}

// Edges returns the boundary segments of the polygon.
func (pg Polygon) Edges() []Segment {
	n := len(pg.Vertices)
	edges := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Segment{A: pg.Vertices[i], B: pg.Vertices[(i+1)%n]})
	}
	return edges
}

// ContainsPoint reports whether p lies inside the polygon. Boundary
// points count as contained. Ray casting with an explicit boundary
// pre-check, so edge and vertex hits do not depend on crossing parity.
func (pg Polygon) ContainsPoint(p Point) bool {
	for _, e := range pg.Edges() {
		if orientation(e.A, e.B, p) == 0 && onSegment(e.A, e.B, p) {
			return true
		}
	}

	inside := false
	n := len(pg.Vertices)
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := pg.Vertices[i], pg.Vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vj.X + (p.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// IntersectsSegment reports whether the segment touches the polygon
// boundary or interior.
func (pg Polygon) IntersectsSegment(s Segment) bool {
	for _, e := range pg.Edges() {
		if e.IntersectsSegment(s) {
			return true
		}
	}
	// Fully inside: no boundary crossing, test one endpoint.
	return pg.ContainsPoint(s.A)
}

// IntersectsPolygon reports whether the two polygons overlap.
func (pg Polygon) IntersectsPolygon(o Polygon) bool {
	for _, e := range pg.Edges() {
		if o.IntersectsSegment(e) {
			return true
		}
	}
	// One may fully contain the other without boundary contact.
	return pg.ContainsPoint(o.Vertices[0]) || o.ContainsPoint(pg.Vertices[0])
}

// DistanceToPoint returns the distance from p to the polygon, zero when
// p lies inside or on the boundary.
func (pg Polygon) DistanceToPoint(p Point) float64 {
	if pg.ContainsPoint(p) {
		return 0
	}
	min := math.Inf(1)
	for _, e := range pg.Edges() {
		min = math.Min(min, e.DistanceToPoint(p))
	}
	return min
}

// DistanceToSegment returns the distance from s to the polygon, zero on
// overlap.
func (pg Polygon) DistanceToSegment(s Segment) float64 {
	if pg.IntersectsSegment(s) {
		return 0
	}
	min := math.Inf(1)
	for _, e := range pg.Edges() {
		min = math.Min(min, e.DistanceToSegment(s))
	}
	return min
}

// Translate returns the polygon shifted by v.
func (pg Polygon) Translate(v Point) Polygon {
	ring := make([]Point, len(pg.Vertices))
	for i, p := range pg.Vertices {
		ring[i] = p.Add(v)
	}
	return Polygon{Vertices: ring}
}

// Bounds returns the polygon's bounding rect.
func (pg Polygon) Bounds() Rect {
	return RectFromPoints(pg.Vertices...)
}

// Centroid returns the vertex average. Sufficient for placement and
// rendering; not the area centroid.
func (pg Polygon) Centroid() Point {
	var c Point
	for _, p := range pg.Vertices {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pg.Vertices)))
}
