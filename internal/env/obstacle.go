package env

import (
	"fmt"
	"math"

	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// sweepSamples is the minimum grid resolution used to bracket
// entry/exit events of a translating obstacle before bisection
// refinement. The grid is refined further so one step never exceeds
// Radius divided by the obstacle speed.
const sweepSamples = 512

// Obstacle is a temporal obstacle: a shape with a safety radius, an
// activity schedule and an optional linear motion. The obstacle is
// physically present only while the time falls into one of its activity
// occurrences; while present and moving, its shape at time t is the
// base shape translated by Velocity*t.
//
// Obstacles are immutable after being added to an Environment.
type Obstacle struct {
	Shape      geom.Shape
	Radius     float64
	Activity   interval.Set // empty = always active
	Recurrence Recurrence
	Velocity   geom.Point // units per second; zero vector = stationary
}

// Validate checks the obstacle for construction-time defects.
func (o *Obstacle) Validate() error {
	switch s := o.Shape.(type) {
	case nil:
		return fmt.Errorf("obstacle without shape: %w", geom.ErrDegenerateGeometry)
	case geom.Polygon:
		if len(s.Vertices) < 3 {
			return fmt.Errorf("polygon with %d vertices: %w", len(s.Vertices), geom.ErrDegenerateGeometry)
		}
	}
	if o.Radius < 0 {
		return fmt.Errorf("negative radius %g: %w", o.Radius, geom.ErrDegenerateGeometry)
	}
	if o.Recurrence != None {
		for _, iv := range o.Activity {
			if math.IsInf(iv.End, 1) {
				return fmt.Errorf("recurring obstacle with unbounded activity interval: %w", geom.ErrDegenerateGeometry)
			}
			if iv.Duration() > o.Recurrence.Seconds() {
				return fmt.Errorf("activity interval longer than recurrence period: %w", geom.ErrDegenerateGeometry)
			}
		}
	}
	return nil
}

// ShapeAt returns the obstacle's shape at time t, ignoring activity.
func (o *Obstacle) ShapeAt(t float64) geom.Shape {
	if o.Velocity.IsZero() {
		return o.Shape
	}
	return geom.Translate(o.Shape, o.Velocity.Scale(t))
}

// ActiveAt reports whether the obstacle is physically present at t.
func (o *Obstacle) ActiveAt(t float64) bool {
	if len(o.Activity) == 0 {
		return t >= 0
	}
	if o.Recurrence == None {
		return o.Activity.Contains(t)
	}
	period := o.Recurrence.Seconds()
	for _, iv := range o.Activity {
		if t < iv.Start {
			continue
		}
		phase := math.Mod(t-iv.Start, period)
		if phase < iv.Duration() {
			return true
		}
	}
	return false
}

// ActiveWindows expands the activity schedule, including recurrences,
// into the concrete occurrence intervals overlapping the horizon.
// Occurrences starting after the horizon contribute nothing. Over an
// unbounded horizon a recurring schedule cannot be enumerated; the
// periodic tail is covered by one window from the first occurrence on,
// so only the time before it is reported free.
func (o *Obstacle) ActiveWindows(horizon interval.Interval) interval.Set {
	if horizon.Empty() {
		return nil
	}
	if len(o.Activity) == 0 {
		return interval.Set{horizon}
	}

	var windows []interval.Interval
	for _, base := range o.Activity {
		if o.Recurrence == None {
			if w := base.Intersect(horizon); !w.Empty() {
				windows = append(windows, w)
			}
			continue
		}

		if math.IsInf(horizon.End, 1) {
			start := math.Max(base.Start, horizon.Start)
			windows = append(windows, interval.Span(start, interval.Forever))
			continue
		}

		period := o.Recurrence.Seconds()
		k := 0.0
		if delta := horizon.Start - base.Start; delta > 0 {
			k = math.Floor(delta / period)
		}
		for {
			start := base.Start + k*period
			if start >= horizon.End {
				break
			}
			occ := interval.Span(start, start+base.Duration()).Intersect(horizon)
			if !occ.Empty() {
				windows = append(windows, occ)
			}
			k++
		}
	}
	return interval.Normalize(windows)
}

// Collides reports whether the obstacle occupies the query shape at t.
func (o *Obstacle) Collides(query geom.Shape, t float64) bool {
	if !o.ActiveAt(t) {
		return false
	}
	return geom.Distance(o.ShapeAt(t), query) <= o.Radius
}

// FreeIntervals returns the sub-intervals of horizon during which the
// query shape is not occupied by this obstacle. An obstacle that never
// overlaps the query returns the full horizon unmodified.
func (o *Obstacle) FreeIntervals(query geom.Shape, horizon interval.Interval) interval.Set {
	if horizon.Empty() {
		return nil
	}

	var blocked []interval.Interval
	for _, occ := range o.ActiveWindows(horizon) {
		blocked = append(blocked, o.blockedWithin(occ, query)...)
	}
	return interval.Complement(interval.Normalize(blocked), horizon)
}

// blockedWithin computes the blocked sub-intervals of one activity
// occurrence. Stationary obstacles block all of it or none of it;
// translating obstacles are swept for entry/exit events.
func (o *Obstacle) blockedWithin(window interval.Interval, query geom.Shape) []interval.Interval {
	if window.Empty() {
		return nil
	}
	if o.Velocity.IsZero() {
		if geom.Distance(o.Shape, query) <= o.Radius {
			return []interval.Interval{window}
		}
		return nil
	}

	sweep := o.sweepWindow(window, query)
	if sweep.Empty() {
		return nil
	}

	clearance := func(t float64) float64 {
		return geom.Distance(o.ShapeAt(t), query) - o.Radius
	}

	// Bracket sign changes on a uniform grid, then bisect the event
	// times. Clearance changes at most |v| per unit time, so any
	// episode in which the shapes actually touch lasts at least
	// 2*Radius/|v|; a step of Radius/|v| cannot skip it.
	steps := sweepSamples
	speed := math.Hypot(o.Velocity.X, o.Velocity.Y)
	if o.Radius > 0 && speed > 0 {
		if need := int(math.Ceil(sweep.Duration() * speed / o.Radius)); need > steps {
			steps = need
		}
	}
	step := sweep.Duration() / float64(steps)
	var blocked []interval.Interval
	var openStart float64
	inside := clearance(sweep.Start) <= 0
	if inside {
		openStart = sweep.Start
	}
	prev := sweep.Start
	for i := 1; i <= steps; i++ {
		t := sweep.Start + float64(i)*step
		if t > sweep.End {
			t = sweep.End
		}
		nowInside := clearance(t) <= 0
		if nowInside != inside {
			event := bisectEvent(clearance, prev, t)
			if nowInside {
				openStart = event
			} else {
				blocked = append(blocked, interval.Span(openStart, event))
			}
			inside = nowInside
		}
		prev = t
	}
	if inside {
		blocked = append(blocked, interval.Span(openStart, sweep.End))
	}
	return blocked
}

// sweepWindow bounds the times within window at which the translating
// obstacle can possibly reach the query: the linear motion of the
// obstacle's bounding box must overlap the query's box inflated by the
// radius. Keeps the event sweep finite even for unbounded activity.
func (o *Obstacle) sweepWindow(window interval.Interval, query geom.Shape) interval.Interval {
	ob := geom.Bounds(o.Shape)
	qb := geom.Bounds(query).Inflate(o.Radius)

	sweep := window
	sweep = sweep.Intersect(axisWindow(ob.MinX, ob.MaxX, qb.MinX, qb.MaxX, o.Velocity.X))
	sweep = sweep.Intersect(axisWindow(ob.MinY, ob.MaxY, qb.MinY, qb.MaxY, o.Velocity.Y))
	return sweep
}

// axisWindow solves min+v*t <= qMax && max+v*t >= qMin for t.
func axisWindow(min, max, qMin, qMax, v float64) interval.Interval {
	if v == 0 {
		if min <= qMax && max >= qMin {
			return interval.Span(math.Inf(-1), math.Inf(1))
		}
		return interval.Interval{}
	}
	t1 := (qMax - min) / v
	t2 := (qMin - max) / v
	if t1 < t2 {
		t1, t2 = t2, t1
	}
	return interval.Span(t2, t1)
}

// bisectEvent refines a clearance sign change inside (lo, hi].
func bisectEvent(f func(float64) float64, lo, hi float64) float64 {
	loInside := f(lo) <= 0
	for i := 0; i < 64 && hi-lo > 1e-9; i++ {
		mid := (lo + hi) / 2
		if (f(mid) <= 0) == loInside {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
