package prm

import "github.com/sjschlapbach/ta-prm/internal/geom"

// PositionAt returns the planned position at time t, interpolating
// linearly along the schedule. Waypoint times are arrival times, so the
// agent waits at a waypoint until the departure that meets the next
// arrival. Before the schedule it sits at the start, after it at the
// goal.
func (p *PlanResult) PositionAt(t float64, speed float64) geom.Point {
	if len(p.Waypoints) == 0 {
		return geom.Point{}
	}
	if speed <= 0 {
		speed = 1
	}
	if t <= p.Waypoints[0].Time {
		return p.Waypoints[0].Pos
	}
	last := p.Waypoints[len(p.Waypoints)-1]
	if t >= last.Time {
		return last.Pos
	}

	for i := 0; i+1 < len(p.Waypoints); i++ {
		a, b := p.Waypoints[i], p.Waypoints[i+1]
		if t > b.Time {
			continue
		}
		travel := a.Pos.DistanceTo(b.Pos) / speed
		depart := b.Time - travel
		if t <= depart {
			return a.Pos // still waiting at the node
		}
		alpha := (t - depart) / travel
		return a.Pos.Add(b.Pos.Sub(a.Pos).Scale(alpha))
	}
	return last.Pos
}

// WaitTime returns the total time spent waiting at nodes rather than
// traversing edges.
func (p *PlanResult) WaitTime(speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	wait := 0.0
	for i := 0; i+1 < len(p.Waypoints); i++ {
		a, b := p.Waypoints[i], p.Waypoints[i+1]
		travel := a.Pos.DistanceTo(b.Pos) / speed
		wait += (b.Time - a.Time) - travel
	}
	return wait
}
