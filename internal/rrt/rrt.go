// Package rrt implements rapidly-exploring random tree planners over
// the same temporal environments the roadmap planner runs against: a
// single-query tree grown through the space that is free at the
// departure time, optional cheapest-parent rewiring for shorter paths,
// and a replanning executor that follows the tree path and rebuilds it
// when a temporal obstacle invalidates the remainder.
package rrt

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/prm"
)

// Params controls tree growth. The same seed and parameters over the
// same instance always grow the same tree.
type Params struct {
	MaxIterations int     // sampling attempts per tree, default 5000
	StepSize      float64 // maximum edge extension, default 2% of the bounds diagonal
	GoalBias      float64 // probability of sampling the goal, default 0.05
	GoalRadius    float64 // connect-to-goal distance, default StepSize
	Rewire        bool    // route new nodes through the cheapest nearby parent
	RewireRadius  float64 // neighbourhood considered for rewiring, default 2*StepSize
	Speed         float64 // traversal speed, default 1
	Seed          int64
	MaxReplans    int // replanning attempts per query, default 25
}

func (p Params) withDefaults(bounds geom.Rect) Params {
	if p.MaxIterations <= 0 {
		p.MaxIterations = 5000
	}
	if p.StepSize <= 0 {
		p.StepSize = math.Hypot(bounds.Width(), bounds.Height()) / 50
	}
	if p.GoalBias <= 0 {
		p.GoalBias = 0.05
	}
	if p.GoalRadius <= 0 {
		p.GoalRadius = p.StepSize
	}
	if p.RewireRadius <= 0 {
		p.RewireRadius = 2 * p.StepSize
	}
	if p.Speed <= 0 {
		p.Speed = 1
	}
	if p.MaxReplans <= 0 {
		p.MaxReplans = 25
	}
	return p
}

// treeNode is one vertex of the search tree. cost is the path length
// from the root along parent links.
type treeNode struct {
	pos    geom.Point
	parent int
	cost   float64
}

// Plan grows a tree from start toward goal through the space that is
// free at the departure time and returns the path as a schedule at the
// nominal speed. The environment is frozen at the departure time;
// Replan wraps Plan with the temporal validity check.
func Plan(inst *env.Instance, params Params, start, goal geom.Point, depart float64, logger *zap.Logger) (*prm.PlanResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := params.withDefaults(inst.Bounds())
	rng := rand.New(rand.NewSource(p.Seed))
	return plan(inst, p, rng, start, goal, depart, logger)
}

func plan(inst *env.Instance, p Params, rng *rand.Rand, start, goal geom.Point, depart float64, logger *zap.Logger) (*prm.PlanResult, error) {
	if !inst.FreeAt(start, depart) {
		return nil, fmt.Errorf("start blocked at departure time %g: %w", depart, prm.ErrInfeasibleSchedule)
	}
	if !inst.FreeAt(goal, depart) {
		return nil, fmt.Errorf("goal blocked at departure time %g: %w", depart, prm.ErrInfeasibleSchedule)
	}

	bounds := inst.Bounds()
	tree := []treeNode{{pos: start, parent: -1}}

	for i := 0; i < p.MaxIterations; i++ {
		target := goal
		if rng.Float64() >= p.GoalBias {
			target = geom.Pt(
				bounds.MinX+rng.Float64()*bounds.Width(),
				bounds.MinY+rng.Float64()*bounds.Height(),
			)
		}

		near := nearest(tree, target)
		candidate := steer(tree[near].pos, target, p.StepSize)
		if !inst.FreeAt(candidate, depart) ||
			!inst.FreeAt(geom.Seg(tree[near].pos, candidate), depart) {
			continue
		}

		parent := near
		cost := tree[near].cost + tree[near].pos.DistanceTo(candidate)
		if p.Rewire {
			parent, cost = cheapestParent(inst, tree, candidate, parent, cost, p.RewireRadius, depart)
		}
		tree = append(tree, treeNode{pos: candidate, parent: parent, cost: cost})

		if candidate.DistanceTo(goal) <= p.GoalRadius &&
			inst.FreeAt(geom.Seg(candidate, goal), depart) {
			tree = append(tree, treeNode{
				pos:    goal,
				parent: len(tree) - 1,
				cost:   cost + candidate.DistanceTo(goal),
			})
			result := schedule(tree, len(tree)-1, depart, p.Speed)
			logger.Debug("tree reached the goal",
				zap.Int("iterations", i+1),
				zap.Int("nodes", len(tree)),
				zap.Float64("length", result.Length))
			return result, nil
		}
	}
	return nil, fmt.Errorf("goal not reached after %d iterations: %w", p.MaxIterations, prm.ErrInfeasibleSchedule)
}

// nearest returns the index of the tree node closest to target.
func nearest(tree []treeNode, target geom.Point) int {
	best := 0
	bestDist := tree[0].pos.DistanceTo(target)
	for i := 1; i < len(tree); i++ {
		if d := tree[i].pos.DistanceTo(target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// steer moves from `from` toward `to`, at most step away.
func steer(from, to geom.Point, step float64) geom.Point {
	d := from.DistanceTo(to)
	if d <= step {
		return to
	}
	return from.Add(to.Sub(from).Scale(step / d))
}

// cheapestParent scans the neighbourhood of candidate for a parent with
// a lower path cost whose connecting edge is free at time t.
func cheapestParent(inst *env.Instance, tree []treeNode, candidate geom.Point, parent int, cost, radius, t float64) (int, float64) {
	for i := range tree {
		if i == parent {
			continue
		}
		d := tree[i].pos.DistanceTo(candidate)
		if d > radius {
			continue
		}
		c := tree[i].cost + d
		if c >= cost {
			continue
		}
		if inst.FreeAt(geom.Seg(tree[i].pos, candidate), t) {
			parent, cost = i, c
		}
	}
	return parent, cost
}

// schedule converts the tree path ending at idx into waypoints timed at
// the nominal speed. Tree waypoints carry no roadmap node, so Node is
// always -1.
func schedule(tree []treeNode, idx int, depart, speed float64) *prm.PlanResult {
	var path []geom.Point
	for i := idx; i >= 0; i = tree[i].parent {
		path = append(path, tree[i].pos)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	res := &prm.PlanResult{}
	t := depart
	length := 0.0
	for i, pos := range path {
		if i > 0 {
			d := path[i-1].DistanceTo(pos)
			length += d
			t += d / speed
		}
		res.Waypoints = append(res.Waypoints, prm.Waypoint{Node: -1, Pos: pos, Time: t})
	}
	res.Arrival = t
	res.Length = length
	return res
}
