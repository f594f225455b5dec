package env

import (
	"math"

	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// instanceGridSize is the broad-phase bucket resolution per axis.
const instanceGridSize = 16

// Instance is a read-only view of an Environment scoped to one bounding
// region and planning horizon. It carries a bucket-grid broad phase so
// repeated roadmap queries only touch obstacles that can plausibly
// intersect them. Discard and rebuild the instance when the environment
// or region changes; it never mutates the underlying Environment.
type Instance struct {
	env     *Environment
	bounds  geom.Rect
	horizon interval.Interval

	cellW, cellH float64
	buckets      [][]int // cell -> obstacle indices
	reach        []geom.Rect
}

// NewInstance builds a query-optimized view over env restricted to the
// given bounds and horizon. The horizon is clipped to the environment's
// own planning horizon.
func NewInstance(e *Environment, bounds geom.Rect, horizon interval.Interval) *Instance {
	inst := &Instance{
		env:     e,
		bounds:  bounds,
		horizon: horizon.Intersect(e.Horizon),
		buckets: make([][]int, instanceGridSize*instanceGridSize),
	}
	inst.cellW = bounds.Width() / instanceGridSize
	inst.cellH = bounds.Height() / instanceGridSize

	inst.reach = make([]geom.Rect, len(e.Obstacles))
	for i, o := range e.Obstacles {
		r := inst.obstacleReach(o)
		inst.reach[i] = r
		inst.eachCell(r, func(cell int) {
			inst.buckets[cell] = append(inst.buckets[cell], i)
		})
	}
	return inst
}

// Bounds returns the instance's bounding region.
func (inst *Instance) Bounds() geom.Rect { return inst.bounds }

// Horizon returns the instance's planning horizon.
func (inst *Instance) Horizon() interval.Interval { return inst.horizon }

// Environment returns the underlying environment.
func (inst *Instance) Environment() *Environment { return inst.env }

// obstacleReach bounds everywhere the obstacle can be during the
// horizon: its inflated bounding box, swept along the motion vector.
// Unbounded horizons with a moving obstacle degrade to the full region.
func (inst *Instance) obstacleReach(o *Obstacle) geom.Rect {
	base := geom.Bounds(o.Shape).Inflate(o.Radius)
	if o.Velocity.IsZero() {
		return base
	}
	if math.IsInf(inst.horizon.End, 1) {
		return inst.bounds
	}
	atEnd := base
	shift := o.Velocity.Scale(inst.horizon.End)
	atEnd.MinX += shift.X
	atEnd.MaxX += shift.X
	atEnd.MinY += shift.Y
	atEnd.MaxY += shift.Y
	start := base
	shift = o.Velocity.Scale(inst.horizon.Start)
	start.MinX += shift.X
	start.MaxX += shift.X
	start.MinY += shift.Y
	start.MaxY += shift.Y
	return start.Union(atEnd)
}

// eachCell visits the bucket indices covered by r.
func (inst *Instance) eachCell(r geom.Rect, fn func(cell int)) {
	if inst.cellW <= 0 || inst.cellH <= 0 {
		return
	}
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= instanceGridSize {
			return instanceGridSize - 1
		}
		return v
	}
	x0 := clamp(int(math.Floor((r.MinX - inst.bounds.MinX) / inst.cellW)))
	x1 := clamp(int(math.Floor((r.MaxX - inst.bounds.MinX) / inst.cellW)))
	y0 := clamp(int(math.Floor((r.MinY - inst.bounds.MinY) / inst.cellH)))
	y1 := clamp(int(math.Floor((r.MaxY - inst.bounds.MinY) / inst.cellH)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(y*instanceGridSize + x)
		}
	}
}

// candidates returns the obstacle indices whose reach overlaps the
// query bounds. Deduplicated, order-stable.
func (inst *Instance) candidates(queryBounds geom.Rect) []int {
	seen := make(map[int]bool)
	var out []int
	inst.eachCell(queryBounds, func(cell int) {
		for _, idx := range inst.buckets[cell] {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			if inst.reach[idx].Intersects(queryBounds) {
				out = append(out, idx)
			}
		}
	})
	return out
}

// FreeIntervals returns the free-interval set of the query shape over
// the instance horizon, consulting only broad-phase candidates. The
// result equals Environment.FreeIntervals over the same horizon.
func (inst *Instance) FreeIntervals(query geom.Shape) interval.Set {
	if inst.horizon.Empty() {
		return nil
	}
	free := interval.Set{inst.horizon}
	for _, idx := range inst.candidates(geom.Bounds(query)) {
		if free.Empty() {
			break
		}
		free = interval.Intersect(free, inst.env.Obstacles[idx].FreeIntervals(query, inst.horizon))
	}
	return free
}

// FreeAt reports whether the query shape is free at time t.
func (inst *Instance) FreeAt(query geom.Shape, t float64) bool {
	for _, idx := range inst.candidates(geom.Bounds(query)) {
		if inst.env.Obstacles[idx].Collides(query, t) {
			return false
		}
	}
	return true
}
