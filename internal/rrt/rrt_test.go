package rrt

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
	"github.com/sjschlapbach/ta-prm/internal/prm"
)

func emptyInstance(size float64, horizon interval.Interval) *env.Instance {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: size, MaxY: size}
	e := env.NewEnvironment(bounds, horizon)
	return env.NewInstance(e, bounds, horizon)
}

func TestPlanReachesGoal(t *testing.T) {
	inst := emptyInstance(20, interval.Span(0, 1000))
	start, goal := geom.Pt(1, 1), geom.Pt(19, 19)

	res, err := Plan(inst, Params{Seed: 1, StepSize: 2}, start, goal, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	first := res.Waypoints[0]
	last := res.Waypoints[len(res.Waypoints)-1]
	if first.Pos != start || last.Pos != goal {
		t.Errorf("endpoints = %v, %v, want %v, %v", first.Pos, last.Pos, start, goal)
	}
	if res.Length < start.DistanceTo(goal) {
		t.Errorf("length %g shorter than the straight line %g", res.Length, start.DistanceTo(goal))
	}
	if last.Time != res.Arrival {
		t.Errorf("arrival %g does not match final waypoint time %g", res.Arrival, last.Time)
	}
	// Timestamps must reflect traversal at unit speed.
	for i := 0; i+1 < len(res.Waypoints); i++ {
		a, b := res.Waypoints[i], res.Waypoints[i+1]
		if math.Abs((b.Time-a.Time)-a.Pos.DistanceTo(b.Pos)) > 1e-9 {
			t.Errorf("segment %d timing dt=%g, dist=%g", i, b.Time-a.Time, a.Pos.DistanceTo(b.Pos))
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	inst := emptyInstance(20, interval.Span(0, 1000))
	p := Params{Seed: 7, StepSize: 2}

	a, err := Plan(inst, p, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Plan(inst, p, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seeds produced different plans")
	}
}

func TestPlanAvoidsStaticObstacle(t *testing.T) {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 1000)
	e := env.NewEnvironment(bounds, horizon)
	block, err := geom.NewPolygon([]geom.Point{
		geom.Pt(8, 8), geom.Pt(12, 8), geom.Pt(12, 12), geom.Pt(8, 12),
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Add(&env.Obstacle{Shape: block})
	inst := env.NewInstance(e, bounds, horizon)

	res, err := Plan(inst, Params{Seed: 2, StepSize: 2}, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(res.Waypoints); i++ {
		seg := geom.Seg(res.Waypoints[i].Pos, res.Waypoints[i+1].Pos)
		if block.IntersectsSegment(seg) {
			t.Errorf("segment %d crosses the obstacle", i)
		}
	}
}

func TestRewireNeverLengthens(t *testing.T) {
	// Identical seeds draw the same samples, so rewiring through cheaper
	// parents may only shorten the resulting path.
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 1000)
	e := env.NewEnvironment(bounds, horizon)
	e.Add(&env.Obstacle{Shape: geom.Pt(10, 10), Radius: 3})
	inst := env.NewInstance(e, bounds, horizon)

	plain, err := Plan(inst, Params{Seed: 5, StepSize: 2}, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	starred, err := Plan(inst, Params{Seed: 5, StepSize: 2, Rewire: true}, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if starred.Length > plain.Length+1e-9 {
		t.Errorf("rewired length %g exceeds plain length %g", starred.Length, plain.Length)
	}
}

func TestReplanAroundScheduledObstacle(t *testing.T) {
	// The obstacle sits on the direct route but activates only at t=5,
	// after the first tree is grown. Validation must reject the segments
	// that cross it during its activity and the replanned schedule must
	// be collision free end to end.
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 1000)
	e := env.NewEnvironment(bounds, horizon)
	e.Add(&env.Obstacle{
		Shape:    geom.Pt(15, 15),
		Radius:   2,
		Activity: interval.Set{interval.Span(5, 500)},
	})
	inst := env.NewInstance(e, bounds, horizon)

	start, goal := geom.Pt(1, 1), geom.Pt(19, 19)
	res, err := Replan(inst, Params{Seed: 3, StepSize: 2}, start, goal, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	first := res.Waypoints[0]
	last := res.Waypoints[len(res.Waypoints)-1]
	if first.Pos != start || last.Pos != goal {
		t.Errorf("endpoints = %v, %v, want %v, %v", first.Pos, last.Pos, start, goal)
	}
	for i := 0; i+1 < len(res.Waypoints); i++ {
		a, b := res.Waypoints[i], res.Waypoints[i+1]
		if b.Time <= a.Time {
			t.Errorf("waypoint times not increasing at %d: %g then %g", i, a.Time, b.Time)
		}
		iv, ok := inst.FreeIntervals(geom.Seg(a.Pos, b.Pos)).At(a.Time)
		if !ok || iv.End <= b.Time {
			t.Errorf("segment %d traversed while blocked: [%g, %g]", i, a.Time, b.Time)
		}
	}
	if last.Time != res.Arrival {
		t.Errorf("arrival %g does not match final waypoint time %g", res.Arrival, last.Time)
	}
}

func TestPlanStartBlocked(t *testing.T) {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 1000)
	e := env.NewEnvironment(bounds, horizon)
	e.Add(&env.Obstacle{Shape: geom.Pt(1, 1), Radius: 2})
	inst := env.NewInstance(e, bounds, horizon)

	_, err := Plan(inst, Params{Seed: 1}, geom.Pt(1, 1), geom.Pt(19, 19), 0, nil)
	if !errors.Is(err, prm.ErrInfeasibleSchedule) {
		t.Errorf("err = %v, want ErrInfeasibleSchedule", err)
	}
}
