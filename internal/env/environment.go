package env

import (
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// RejectedObstacle records an obstacle that failed validation at build
// time. The environment stays usable without it.
type RejectedObstacle struct {
	Index int
	Err   error
}

// Environment is an ordered collection of temporal obstacles together
// with the spatial bounds and planning horizon they live in. It owns
// its obstacles; they must not be mutated after Add.
type Environment struct {
	Obstacles []*Obstacle
	Bounds    geom.Rect
	Horizon   interval.Interval
	Rejected  []RejectedObstacle
}

// NewEnvironment creates an empty environment over the given bounds and
// horizon.
func NewEnvironment(bounds geom.Rect, horizon interval.Interval) *Environment {
	return &Environment{Bounds: bounds, Horizon: horizon}
}

// Add validates and inserts obstacles. Invalid obstacles are recorded
// in Rejected instead of aborting the build; the per-obstacle error
// wraps geom.ErrDegenerateGeometry.
func (e *Environment) Add(obstacles ...*Obstacle) {
	for _, o := range obstacles {
		idx := len(e.Obstacles) + len(e.Rejected)
		if err := o.Validate(); err != nil {
			e.Rejected = append(e.Rejected, RejectedObstacle{Index: idx, Err: err})
			continue
		}
		o.Activity = interval.Normalize(o.Activity)
		e.Obstacles = append(e.Obstacles, o)
	}
}

// FreeIntervals returns the sub-intervals of horizon during which the
// query shape is free of every obstacle simultaneously. Implemented as
// a fold of interval-set intersections, which is commutative and
// associative, so the obstacle order cannot affect the result.
func (e *Environment) FreeIntervals(query geom.Shape, horizon interval.Interval) interval.Set {
	if horizon.Empty() {
		return nil
	}
	free := interval.Set{horizon}
	for _, o := range e.Obstacles {
		if free.Empty() {
			break
		}
		free = interval.Intersect(free, o.FreeIntervals(query, horizon))
	}
	return free
}

// FreeAt reports whether the query shape is free of all obstacles at t.
func (e *Environment) FreeAt(query geom.Shape, t float64) bool {
	for _, o := range e.Obstacles {
		if o.Collides(query, t) {
			return false
		}
	}
	return true
}
