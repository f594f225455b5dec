package env

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		o    Obstacle
		ok   bool
	}{
		{"valid point", Obstacle{Shape: geom.Pt(0, 0), Radius: 1}, true},
		{"nil shape", Obstacle{Radius: 1}, false},
		{"negative radius", Obstacle{Shape: geom.Pt(0, 0), Radius: -1}, false},
		{
			"recurring with unbounded activity",
			Obstacle{Shape: geom.Pt(0, 0), Activity: interval.Set{interval.Always()}, Recurrence: Hourly},
			false,
		},
		{
			"activity longer than period",
			Obstacle{Shape: geom.Pt(0, 0), Activity: interval.Set{interval.Span(0, 90)}, Recurrence: Minutely},
			false,
		},
		{
			"recurring within period",
			Obstacle{Shape: geom.Pt(0, 0), Activity: interval.Set{interval.Span(0, 30)}, Recurrence: Minutely},
			true,
		},
	}
	for _, c := range cases {
		err := c.o.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: Validate = %v, want nil", c.name, err)
		}
		if !c.ok {
			if !errors.Is(err, geom.ErrDegenerateGeometry) {
				t.Errorf("%s: Validate = %v, want ErrDegenerateGeometry", c.name, err)
			}
		}
	}
}

func TestStationaryFreeIntervals(t *testing.T) {
	o := &Obstacle{
		Shape:    geom.Pt(0, 0),
		Radius:   1,
		Activity: interval.Set{interval.Span(5, 10)},
	}
	horizon := interval.Span(0, 20)

	// Query within the safety radius: blocked exactly while active.
	got := o.FreeIntervals(geom.Pt(0.5, 0), horizon)
	want := interval.Set{interval.Span(0, 5), interval.Span(10, 20)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeIntervals near = %+v, want %+v", got, want)
	}

	// Query out of reach: the full horizon stays free.
	got = o.FreeIntervals(geom.Pt(5, 0), horizon)
	want = interval.Set{horizon}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeIntervals far = %+v, want %+v", got, want)
	}
}

func TestAlwaysActiveObstacle(t *testing.T) {
	o := &Obstacle{Shape: geom.Pt(0, 0), Radius: 1}
	horizon := interval.Span(0, 20)

	if got := o.FreeIntervals(geom.Pt(0, 0), horizon); !got.Empty() {
		t.Errorf("colliding query under always-active obstacle: free = %+v, want empty", got)
	}
	if !o.ActiveAt(0) || !o.ActiveAt(1e9) {
		t.Error("obstacle without schedule should be active at all non-negative times")
	}
}

func TestRecurringActiveAt(t *testing.T) {
	o := &Obstacle{
		Shape:      geom.Pt(0, 0),
		Activity:   interval.Set{interval.Span(0, 10)},
		Recurrence: Minutely,
	}

	cases := []struct {
		t    float64
		want bool
	}{
		{5, true},
		{10, false}, // half-open occurrence end
		{30, false},
		{65, true},
		{-1, false}, // before the first occurrence
		{120 + 9.5, true},
	}
	for _, c := range cases {
		if got := o.ActiveAt(c.t); got != c.want {
			t.Errorf("ActiveAt(%g) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestActiveWindowsRecurrence(t *testing.T) {
	o := &Obstacle{
		Shape:      geom.Pt(0, 0),
		Activity:   interval.Set{interval.Span(0, 10)},
		Recurrence: Minutely,
	}

	got := o.ActiveWindows(interval.Span(0, 180))
	want := interval.Set{
		interval.Span(0, 10),
		interval.Span(60, 70),
		interval.Span(120, 130),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveWindows = %+v, want %+v", got, want)
	}

	// A horizon starting mid-cycle only sees the tail occurrences.
	got = o.ActiveWindows(interval.Span(65, 180))
	want = interval.Set{
		interval.Span(65, 70),
		interval.Span(120, 130),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveWindows mid-cycle = %+v, want %+v", got, want)
	}
}

func TestMovingObstacleFreeIntervals(t *testing.T) {
	// Point obstacle moving along +x at unit speed passes the query at
	// (10, 0); with radius 1 it blocks exactly t in [9, 11].
	o := &Obstacle{
		Shape:    geom.Pt(0, 0),
		Radius:   1,
		Velocity: geom.Pt(1, 0),
	}
	horizon := interval.Span(0, 20)

	got := o.FreeIntervals(geom.Pt(10, 0), horizon)
	if len(got) != 2 {
		t.Fatalf("FreeIntervals = %+v, want two intervals", got)
	}
	const tol = 1e-6
	if math.Abs(got[0].Start-0) > tol || math.Abs(got[0].End-9) > tol {
		t.Errorf("first free interval = %+v, want [0,9)", got[0])
	}
	if math.Abs(got[1].Start-11) > tol || math.Abs(got[1].End-20) > tol {
		t.Errorf("second free interval = %+v, want [11,20)", got[1])
	}

	// A query off the motion line is never blocked.
	clear := o.FreeIntervals(geom.Pt(10, 5), horizon)
	if !reflect.DeepEqual(clear, interval.Set{horizon}) {
		t.Errorf("off-line query free = %+v, want full horizon", clear)
	}
}

func TestRecurringObstacleUnboundedHorizon(t *testing.T) {
	// Occurrences over [0, inf) cannot be enumerated one by one; the
	// periodic tail collapses into a single window from the first
	// occurrence on, and the query must return.
	o := &Obstacle{
		Shape:      geom.Pt(5, 5),
		Radius:     1,
		Activity:   interval.Set{interval.Span(10, 20)},
		Recurrence: Minutely,
	}

	windows := o.ActiveWindows(interval.Always())
	wantWindows := interval.Set{interval.Span(10, interval.Forever)}
	if !reflect.DeepEqual(windows, wantWindows) {
		t.Errorf("ActiveWindows = %+v, want %+v", windows, wantWindows)
	}

	got := o.FreeIntervals(geom.Pt(5, 5), interval.Always())
	want := interval.Set{interval.Span(0, 10)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeIntervals = %+v, want %+v", got, want)
	}

	// Bounded horizons still enumerate exact occurrences.
	bounded := o.FreeIntervals(geom.Pt(5, 5), interval.Span(0, 120))
	wantBounded := interval.Set{
		interval.Span(0, 10),
		interval.Span(20, 70),
		interval.Span(80, 120),
	}
	if !reflect.DeepEqual(bounded, wantBounded) {
		t.Errorf("bounded FreeIntervals = %+v, want %+v", bounded, wantBounded)
	}
}

func TestFastMovingObstacleNotMissed(t *testing.T) {
	// A small fast obstacle crosses the diagonal in about 0.07 seconds,
	// far less than the sweep window divided by the coarse grid floor.
	// The step bound of Radius/|v| must still catch the episode.
	o := &Obstacle{
		Shape:    geom.Pt(75, 25),
		Radius:   0.05,
		Velocity: geom.Pt(-1, 1),
	}
	query := geom.Seg(geom.Pt(0, 0), geom.Pt(100, 100))
	horizon := interval.Span(0, 100)

	if !o.Collides(query, 25) {
		t.Fatal("obstacle should collide with the diagonal at t=25")
	}

	got := o.FreeIntervals(query, horizon)
	if got.Contains(25) {
		t.Fatalf("free intervals %+v contain the collision time 25", got)
	}
	if len(got) != 2 {
		t.Fatalf("FreeIntervals = %+v, want two intervals around the crossing", got)
	}

	// Distance to the diagonal is |50-2t|/sqrt(2), so the blocked episode
	// is [25 - 0.025*sqrt(2), 25 + 0.025*sqrt(2)].
	const tol = 1e-3
	wantEnter := 25 - 0.025*math.Sqrt2
	wantExit := 25 + 0.025*math.Sqrt2
	if math.Abs(got[0].End-wantEnter) > tol {
		t.Errorf("blocked episode starts at %g, want %g", got[0].End, wantEnter)
	}
	if math.Abs(got[1].Start-wantExit) > tol {
		t.Errorf("blocked episode ends at %g, want %g", got[1].Start, wantExit)
	}
}

func TestMovingObstacleCollides(t *testing.T) {
	o := &Obstacle{
		Shape:    geom.Pt(0, 0),
		Radius:   1,
		Velocity: geom.Pt(1, 0),
	}
	if !o.Collides(geom.Pt(10, 0), 10) {
		t.Error("obstacle should collide with (10,0) at t=10")
	}
	if o.Collides(geom.Pt(10, 0), 0) {
		t.Error("obstacle should be far from (10,0) at t=0")
	}
}

func TestParseRecurrence(t *testing.T) {
	cases := []struct {
		in   string
		want Recurrence
		ok   bool
	}{
		{"", None, true},
		{"none", None, true},
		{"minutely", Minutely, true},
		{"hourly", Hourly, true},
		{"daily", Daily, true},
		{"weekly", None, false},
	}
	for _, c := range cases {
		got, ok := ParseRecurrence(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseRecurrence(%q) = %v, %v, want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
	if Hourly.String() != "hourly" {
		t.Errorf("Hourly.String() = %q", Hourly.String())
	}
}
