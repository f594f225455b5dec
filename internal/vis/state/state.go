package state

import (
	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/prm"
)

// State is the shared visualizer state: the environment instance, the
// built roadmap, the planned schedule and the playback clock.
type State struct {
	Inst    *env.Instance
	Roadmap *prm.Roadmap
	Plan    *prm.PlanResult
	Speed   float64 // agent speed, for interpolation

	Playback *Playback
}

// NewState creates visualizer state. Playback runs from the schedule's
// departure to its arrival; without a plan it spans the horizon.
func NewState(inst *env.Instance, roadmap *prm.Roadmap, plan *prm.PlanResult, speed float64) *State {
	minT := inst.Horizon().Start
	maxT := inst.Horizon().End
	if plan != nil && len(plan.Waypoints) > 0 {
		minT = plan.Waypoints[0].Time
		maxT = plan.Arrival
	}
	if speed <= 0 {
		speed = 1
	}
	return &State{
		Inst:     inst,
		Roadmap:  roadmap,
		Plan:     plan,
		Speed:    speed,
		Playback: NewPlayback(minT, maxT),
	}
}

// AgentPosition returns the agent's interpolated position at the
// current playback time.
func (s *State) AgentPosition() (geom.Point, bool) {
	if s.Plan == nil || len(s.Plan.Waypoints) == 0 {
		return geom.Point{}, false
	}
	return s.Plan.PositionAt(s.Playback.CurrentTime, s.Speed), true
}
