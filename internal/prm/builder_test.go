package prm

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/goleak"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func emptyInstance(size float64, horizon interval.Interval) *env.Instance {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: size, MaxY: size}
	e := env.NewEnvironment(bounds, horizon)
	return env.NewInstance(e, bounds, horizon)
}

func TestBuildDeterministic(t *testing.T) {
	inst := emptyInstance(100, interval.Span(0, 100))
	params := BuildParams{Samples: 100, Radius: 20, MaxNeighbors: 8, Seed: 42}

	r1, err := Build(inst, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Build(inst, params, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(r1.Nodes) != len(r2.Nodes) || len(r1.Edges) != len(r2.Edges) {
		t.Fatalf("rebuild differs: %d/%d nodes, %d/%d edges",
			len(r1.Nodes), len(r2.Nodes), len(r1.Edges), len(r2.Edges))
	}
	for i := range r1.Nodes {
		if r1.Nodes[i].Pos != r2.Nodes[i].Pos {
			t.Fatalf("node %d position differs between builds", i)
		}
		if !reflect.DeepEqual(r1.Nodes[i].Free, r2.Nodes[i].Free) {
			t.Fatalf("node %d free set differs between builds", i)
		}
	}
	for i := range r1.Edges {
		a, b := r1.Edges[i], r2.Edges[i]
		if a.From != b.From || a.To != b.To || a.Length != b.Length ||
			!reflect.DeepEqual(a.Free, b.Free) {
			t.Fatalf("edge %d differs between builds", i)
		}
	}
}

func TestBuildInsufficientConnectivity(t *testing.T) {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	horizon := interval.Span(0, 100)
	e := env.NewEnvironment(bounds, horizon)

	cover, err := geom.NewPolygon([]geom.Point{
		geom.Pt(-1, -1), geom.Pt(11, -1), geom.Pt(11, 11), geom.Pt(-1, 11),
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Add(&env.Obstacle{Shape: cover})

	inst := env.NewInstance(e, bounds, horizon)
	_, err = Build(inst, BuildParams{Samples: 50, Radius: 5, Seed: 1}, nil)
	if !errors.Is(err, ErrInsufficientConnectivity) {
		t.Errorf("Build under full cover: err = %v, want ErrInsufficientConnectivity", err)
	}
}

func TestBuildNodeFreeSetsMatchInstance(t *testing.T) {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 50)
	e := env.NewEnvironment(bounds, horizon)
	e.Add(&env.Obstacle{
		Shape:    geom.Pt(10, 10),
		Radius:   3,
		Activity: interval.Set{interval.Span(5, 25)},
	})
	inst := env.NewInstance(e, bounds, horizon)

	r, err := Build(inst, BuildParams{Samples: 60, Radius: 8, Seed: 7}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range r.Nodes {
		want := inst.FreeIntervals(n.Pos)
		if !reflect.DeepEqual(n.Free, want) {
			t.Errorf("node %d free set = %+v, want %+v", n.ID, n.Free, want)
		}
		if n.Free.Empty() {
			t.Errorf("node %d kept with empty free set", n.ID)
		}
	}
	for _, edge := range r.Edges {
		if edge.Free.Empty() {
			t.Errorf("edge %d-%d kept with empty free set", edge.From, edge.To)
		}
		if edge.Duration != edge.Length {
			t.Errorf("edge %d-%d duration = %g, want %g at unit speed", edge.From, edge.To, edge.Duration, edge.Length)
		}
	}
}

func TestMaxNeighborsCap(t *testing.T) {
	inst := emptyInstance(10, interval.Span(0, 100))
	r, err := Build(inst, BuildParams{Samples: 50, Radius: 20, MaxNeighbors: 3, Seed: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range r.Nodes {
		if got := len(r.Neighbors(n.ID)); got > 3 {
			t.Errorf("node %d has %d neighbours, cap is 3", n.ID, got)
		}
	}
}

func TestConnectStartGoal(t *testing.T) {
	inst := emptyInstance(20, interval.Span(0, 100))
	r, err := Build(inst, BuildParams{Samples: 80, Radius: 8, Seed: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.ConnectStart(geom.Pt(1, 1)); err != nil {
		t.Fatalf("ConnectStart: %v", err)
	}
	if err := r.ConnectGoal(geom.Pt(19, 19)); err != nil {
		t.Fatalf("ConnectGoal: %v", err)
	}
	if r.Start < 0 || r.Goal < 0 {
		t.Fatal("start/goal ids not set")
	}
	if len(r.Neighbors(r.Start)) == 0 || len(r.Neighbors(r.Goal)) == 0 {
		t.Error("connected endpoints must have neighbours")
	}
}

func TestConnectBlockedPosition(t *testing.T) {
	bounds := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	horizon := interval.Span(0, 100)
	e := env.NewEnvironment(bounds, horizon)
	e.Add(&env.Obstacle{Shape: geom.Pt(1, 1), Radius: 2})
	inst := env.NewInstance(e, bounds, horizon)

	r, err := Build(inst, BuildParams{Samples: 80, Radius: 8, Seed: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = r.ConnectStart(geom.Pt(1, 1))
	if !errors.Is(err, ErrInsufficientConnectivity) {
		t.Errorf("ConnectStart on a permanently blocked position: err = %v, want ErrInsufficientConnectivity", err)
	}
}
