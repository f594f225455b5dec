package rrt

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/prm"
)

// Replan plans with the environment frozen at the departure time, then
// walks the path segment by segment against the temporal obstacles.
// Each segment that stays free over its whole traversal interval is
// committed; at the first one that does not, a fresh tree is grown from
// the last committed waypoint at its arrival time. The committed prefix
// is never revisited.
func Replan(inst *env.Instance, params Params, start, goal geom.Point, depart float64, logger *zap.Logger) (*prm.PlanResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := params.withDefaults(inst.Bounds())
	rng := rand.New(rand.NewSource(p.Seed))

	committed := []prm.Waypoint{{Node: -1, Pos: start, Time: depart}}
	pos, now := start, depart

	for attempt := 0; attempt < p.MaxReplans; attempt++ {
		res, err := plan(inst, p, rng, pos, goal, now, logger)
		if err != nil {
			return nil, err
		}

		valid := true
		for i := 0; i+1 < len(res.Waypoints); i++ {
			a, b := res.Waypoints[i], res.Waypoints[i+1]
			iv, ok := inst.FreeIntervals(geom.Seg(a.Pos, b.Pos)).At(a.Time)
			if !ok || iv.End <= b.Time {
				valid = false
				logger.Debug("segment invalidated by a temporal obstacle",
					zap.Int("attempt", attempt+1),
					zap.Float64("depart", a.Time),
					zap.Float64("arrive", b.Time))
				break
			}
			committed = append(committed, b)
			pos, now = b.Pos, b.Time
		}
		if valid {
			logger.Debug("replanning converged",
				zap.Int("attempts", attempt+1),
				zap.Int("waypoints", len(committed)))
			return assemble(committed), nil
		}
	}
	return nil, fmt.Errorf("no valid schedule after %d replanning attempts: %w", p.MaxReplans, prm.ErrInfeasibleSchedule)
}

// assemble folds the committed waypoints into a result.
func assemble(waypoints []prm.Waypoint) *prm.PlanResult {
	length := 0.0
	for i := 0; i+1 < len(waypoints); i++ {
		length += waypoints[i].Pos.DistanceTo(waypoints[i+1].Pos)
	}
	return &prm.PlanResult{
		Waypoints: waypoints,
		Arrival:   waypoints[len(waypoints)-1].Time,
		Length:    length,
	}
}
