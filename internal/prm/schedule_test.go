package prm

import (
	"testing"

	"github.com/sjschlapbach/ta-prm/internal/geom"
)

func waitingPlan() *PlanResult {
	// Arrive at (2,0) at t=12 after departing (0,0) at t=0: the 2-unit
	// crossing starts at t=10, everything before is waiting.
	return &PlanResult{
		Waypoints: []Waypoint{
			{Node: 0, Pos: geom.Pt(0, 0), Time: 0},
			{Node: 1, Pos: geom.Pt(2, 0), Time: 12},
		},
		Arrival: 12,
		Length:  2,
	}
}

func TestPositionAtInterpolation(t *testing.T) {
	p := waitingPlan()

	cases := []struct {
		t    float64
		want geom.Point
	}{
		{-5, geom.Pt(0, 0)},  // before departure
		{5, geom.Pt(0, 0)},   // still waiting, departure is at 10
		{10, geom.Pt(0, 0)},  // crossing starts
		{11, geom.Pt(1, 0)},  // halfway
		{12, geom.Pt(2, 0)},  // arrived
		{100, geom.Pt(2, 0)}, // stays at the goal
	}
	for _, c := range cases {
		if got := p.PositionAt(c.t, 1); got != c.want {
			t.Errorf("PositionAt(%g) = %+v, want %+v", c.t, got, c.want)
		}
	}
}

func TestWaitTime(t *testing.T) {
	p := waitingPlan()
	if got := p.WaitTime(1); got != 10 {
		t.Errorf("WaitTime = %g, want 10", got)
	}

	noWait := &PlanResult{
		Waypoints: []Waypoint{
			{Pos: geom.Pt(0, 0), Time: 3},
			{Pos: geom.Pt(0, 4), Time: 7},
		},
	}
	if got := noWait.WaitTime(1); got != 0 {
		t.Errorf("WaitTime without waiting = %g, want 0", got)
	}
}

func TestPositionAtEmptySchedule(t *testing.T) {
	p := &PlanResult{}
	if got := p.PositionAt(5, 1); got != (geom.Point{}) {
		t.Errorf("PositionAt on empty schedule = %+v, want origin", got)
	}
}
