package scenario

import (
	"fmt"
	"os"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
	"github.com/sjschlapbach/ta-prm/internal/prm"
)

// nodeSpec and edgeSpec are the wire forms of roadmap entries. Free
// intervals reuse IntervalSpec so unbounded ends survive the round trip.
type nodeSpec struct {
	ID   int            `json:"id"`
	Pos  [2]float64     `json:"pos"`
	Free []IntervalSpec `json:"free,omitempty"`
}

type edgeSpec struct {
	From     int            `json:"from"`
	To       int            `json:"to"`
	Length   float64        `json:"length"`
	Duration float64        `json:"duration"`
	Free     []IntervalSpec `json:"free,omitempty"`
}

// RoadmapSnapshot stores a built roadmap together with the parameters
// it was built with. Reloading skips sampling and interval annotation,
// which dominate build time on large scenarios.
type RoadmapSnapshot struct {
	Params prm.BuildParams `json:"params"`
	Nodes  []nodeSpec      `json:"nodes"`
	Edges  []edgeSpec      `json:"edges"`
}

func setToSpecs(s interval.Set) []IntervalSpec {
	specs := make([]IntervalSpec, 0, len(s))
	for _, iv := range s {
		specs = append(specs, intervalToSpec(iv))
	}
	return specs
}

func specsToSet(specs []IntervalSpec) interval.Set {
	ivs := make([]interval.Interval, 0, len(specs))
	for _, s := range specs {
		ivs = append(ivs, s.interval())
	}
	return interval.Normalize(ivs)
}

// SaveRoadmap writes a roadmap snapshot as JSON.
func SaveRoadmap(r *prm.Roadmap, path string) error {
	snap := RoadmapSnapshot{Params: r.Params()}
	for _, n := range r.Nodes {
		snap.Nodes = append(snap.Nodes, nodeSpec{
			ID:   int(n.ID),
			Pos:  [2]float64{n.Pos.X, n.Pos.Y},
			Free: setToSpecs(n.Free),
		})
	}
	for _, e := range r.Edges {
		snap.Edges = append(snap.Edges, edgeSpec{
			From:     int(e.From),
			To:       int(e.To),
			Length:   e.Length,
			Duration: e.Duration,
			Free:     setToSpecs(e.Free),
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write roadmap: %w", err)
	}
	return nil
}

// LoadRoadmap restores a roadmap snapshot onto an environment instance.
// The instance must describe the same environment the snapshot was
// built on; node and edge intervals are taken from the file as-is.
func LoadRoadmap(path string, inst *env.Instance) (*prm.Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	var snap RoadmapSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}

	nodes := make([]*prm.Node, 0, len(snap.Nodes))
	for i, ns := range snap.Nodes {
		if ns.ID != i {
			return nil, fmt.Errorf("roadmap node %d has id %d, want contiguous ids", i, ns.ID)
		}
		nodes = append(nodes, &prm.Node{
			ID:   prm.NodeID(ns.ID),
			Pos:  geom.Pt(ns.Pos[0], ns.Pos[1]),
			Free: specsToSet(ns.Free),
		})
	}

	edges := make([]*prm.Edge, 0, len(snap.Edges))
	for _, es := range snap.Edges {
		if es.From < 0 || es.From >= len(nodes) || es.To < 0 || es.To >= len(nodes) {
			return nil, fmt.Errorf("roadmap edge %d-%d references missing node", es.From, es.To)
		}
		edges = append(edges, &prm.Edge{
			From:     prm.NodeID(es.From),
			To:       prm.NodeID(es.To),
			Length:   es.Length,
			Duration: es.Duration,
			Free:     specsToSet(es.Free),
		})
	}

	return prm.Restore(inst, snap.Params, nodes, edges), nil
}
