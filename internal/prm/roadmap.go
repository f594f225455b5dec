package prm

import (
	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// NodeID identifies a roadmap node. IDs are stable for the roadmap's
// lifetime.
type NodeID int

// Node is a sampled, collision-checked roadmap position together with
// the time intervals during which the position itself is free. Nodes
// never move after creation.
type Node struct {
	ID   NodeID
	Pos  geom.Point
	Free interval.Set
}

// Edge connects two nodes. Free holds the intervals during which the
// full segment between the endpoints is collision-free; Duration is the
// traversal time at nominal speed. Edges are undirected: traversal time
// and interval membership are symmetric.
type Edge struct {
	From, To NodeID
	Length   float64
	Duration float64
	Free     interval.Set
}

// connection is an adjacency entry: neighbour node plus edge index.
type connection struct {
	to   NodeID
	edge int
}

// Roadmap owns the node and edge sets of a built graph, plus the
// environment instance used to annotate them. It is immutable once
// built, except for connecting query endpoints via ConnectStart and
// ConnectGoal, which append nodes the same way sampling does.
type Roadmap struct {
	Nodes []*Node
	Edges []*Edge

	adj    map[NodeID][]connection
	inst   *env.Instance
	params BuildParams

	Start NodeID // -1 until connected
	Goal  NodeID // -1 until connected
}

// Instance returns the environment instance the roadmap was built on.
func (r *Roadmap) Instance() *env.Instance { return r.inst }

// Params returns the parameters the roadmap was built with.
func (r *Roadmap) Params() BuildParams { return r.params }

// Node returns the node with the given id, or nil.
func (r *Roadmap) Node(id NodeID) *Node {
	if int(id) < 0 || int(id) >= len(r.Nodes) {
		return nil
	}
	return r.Nodes[id]
}

// Neighbors returns the adjacency list of a node.
func (r *Roadmap) Neighbors(id NodeID) []connection {
	return r.adj[id]
}

// addEdge appends an undirected edge and updates both adjacency lists.
func (r *Roadmap) addEdge(e *Edge) {
	idx := len(r.Edges)
	r.Edges = append(r.Edges, e)
	r.adj[e.From] = append(r.adj[e.From], connection{to: e.To, edge: idx})
	r.adj[e.To] = append(r.adj[e.To], connection{to: e.From, edge: idx})
}

// Restore rebuilds a roadmap from externally stored nodes and edges,
// e.g. a saved snapshot. The instance supplies collision queries for
// subsequent start/goal connections.
func Restore(inst *env.Instance, params BuildParams, nodes []*Node, edges []*Edge) *Roadmap {
	r := &Roadmap{
		Nodes:  nodes,
		adj:    make(map[NodeID][]connection),
		inst:   inst,
		params: params.withDefaults(),
		Start:  -1,
		Goal:   -1,
	}
	for _, e := range edges {
		r.addEdge(e)
	}
	return r
}

// PathLength sums the edge lengths along a node sequence.
func (r *Roadmap) PathLength(path []NodeID) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		for _, c := range r.adj[path[i]] {
			if c.to == path[i+1] {
				total += r.Edges[c.edge].Length
				break
			}
		}
	}
	return total
}
