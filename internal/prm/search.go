package prm

import (
	"container/heap"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sjschlapbach/ta-prm/internal/geom"
)

// timePrecision quantizes arrival times for label bookkeeping. Two
// states at the same node whose times round to the same tick are one
// label; only the first is ever enqueued, since a later arrival under
// the same tick cannot be cheaper by more than the precision.
const timePrecision = 1e-6

// PlanRequest describes one planning query against a built roadmap.
type PlanRequest struct {
	Start     geom.Point
	Goal      geom.Point
	Departure float64
	// Deadline is the latest acceptable arrival time; 0 disables it.
	// Exceeding it makes the query infeasible, not aborted.
	Deadline float64
	// Budget caps the wall-clock search time; 0 disables it. Exceeding
	// it aborts with ErrTimeBudgetExceeded, distinct from infeasibility.
	Budget time.Duration
}

// Waypoint is one schedule entry: be at Pos (node Node) at time Time.
type Waypoint struct {
	Node NodeID
	Pos  geom.Point
	Time float64
}

// SearchStats reports search effort, mirroring what the benchmarks
// record: total state expansions and the frontier's peak size.
type SearchStats struct {
	Expansions   int
	FrontierPeak int
}

// PlanResult is a feasible schedule from start to goal.
type PlanResult struct {
	Waypoints []Waypoint
	Arrival   float64
	Length    float64
	Stats     SearchStats
}

// searchState is a (node, time) label in the open list.
type searchState struct {
	node    NodeID
	t       float64 // arrival time at node
	f       float64 // t + heuristic
	hops    int
	parent  *searchState
	heapIdx int
}

type stateHeap []*searchState

func (h stateHeap) Len() int { return len(h) }
func (h stateHeap) Less(i, j int) bool {
	// Minimum arrival time first; ties broken by hop count, then node
	// id, for deterministic schedules.
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].hops != h[j].hops {
		return h[i].hops < h[j].hops
	}
	return h[i].node < h[j].node
}
func (h stateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx = i
	h[j].heapIdx = j
}
func (h *stateHeap) Push(x any) {
	s := x.(*searchState)
	s.heapIdx = len(*h)
	*h = append(*h, s)
}
func (h *stateHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return s
}

type labelKey struct {
	node NodeID
	tick int64
}

func keyOf(node NodeID, t float64) labelKey {
	return labelKey{node: node, tick: int64(math.Round(t / timePrecision))}
}

// Plan connects the request's start and goal into the roadmap (reusing
// already-connected endpoints at the same positions) and runs the
// time-aware search from the departure time.
func (r *Roadmap) Plan(req PlanRequest, logger *zap.Logger) (*PlanResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if r.Start < 0 || r.Nodes[r.Start].Pos != req.Start {
		if err := r.ConnectStart(req.Start); err != nil {
			return nil, err
		}
	}
	if r.Goal < 0 || r.Nodes[r.Goal].Pos != req.Goal {
		if err := r.ConnectGoal(req.Goal); err != nil {
			return nil, err
		}
	}
	return r.search(req, logger)
}

// search is a label-correcting shortest-path over (node, time) states.
// From a state the successors are, per incident edge, one departure per
// free interval of that edge: leave as early as the interval and the
// current node's own free interval allow, so "wait here until the edge
// opens" is an ordinary successor rather than a special action. Each
// quantized (node, time) label is enqueued at most once.
func (r *Roadmap) search(req PlanRequest, logger *zap.Logger) (*PlanResult, error) {
	goalPos := r.Nodes[r.Goal].Pos
	speed := r.params.Speed
	heuristic := func(id NodeID) float64 {
		return r.Nodes[id].Pos.DistanceTo(goalPos) / speed
	}

	startNode := r.Nodes[r.Start]
	if !startNode.Free.Contains(req.Departure) {
		return nil, fmt.Errorf("start blocked at departure time %g: %w", req.Departure, ErrInfeasibleSchedule)
	}

	open := &stateHeap{}
	heap.Init(open)
	first := &searchState{
		node: r.Start,
		t:    req.Departure,
		f:    req.Departure + heuristic(r.Start),
	}
	heap.Push(open, first)

	visited := map[labelKey]struct{}{keyOf(r.Start, req.Departure): {}}
	stats := SearchStats{FrontierPeak: 1}
	wallStart := time.Now()

	for open.Len() > 0 {
		if open.Len() > stats.FrontierPeak {
			stats.FrontierPeak = open.Len()
		}
		cur := heap.Pop(open).(*searchState)
		stats.Expansions++

		if req.Budget > 0 && time.Since(wallStart) > req.Budget {
			return nil, fmt.Errorf("aborted after %d expansions: %w", stats.Expansions, ErrTimeBudgetExceeded)
		}

		if cur.node == r.Goal {
			result := r.reconstruct(cur, stats)
			logger.Debug("schedule found",
				zap.Float64("arrival", result.Arrival),
				zap.Int("waypoints", len(result.Waypoints)),
				zap.Int("expansions", stats.Expansions))
			return result, nil
		}

		nodeIv, ok := r.Nodes[cur.node].Free.At(cur.t)
		if !ok {
			continue
		}
		waitLimit := nodeIv.End

		for _, c := range r.adj[cur.node] {
			e := r.Edges[c.edge]
			for _, free := range e.Free {
				if free.End <= cur.t {
					continue
				}
				dep := math.Max(cur.t, free.Start)
				if dep >= waitLimit {
					break // cannot remain at the node this long
				}
				arr := dep + e.Duration
				if arr >= free.End {
					continue // crossing would leave the free interval
				}
				if req.Deadline > 0 && arr > req.Deadline {
					break // later intervals only arrive later
				}

				key := keyOf(c.to, arr)
				if _, seen := visited[key]; seen {
					continue
				}
				visited[key] = struct{}{}
				heap.Push(open, &searchState{
					node:   c.to,
					t:      arr,
					f:      arr + heuristic(c.to),
					hops:   cur.hops + 1,
					parent: cur,
				})
			}
		}
	}

	return nil, fmt.Errorf("frontier exhausted after %d expansions: %w", stats.Expansions, ErrInfeasibleSchedule)
}

func (r *Roadmap) reconstruct(goal *searchState, stats SearchStats) *PlanResult {
	var waypoints []Waypoint
	for s := goal; s != nil; s = s.parent {
		waypoints = append([]Waypoint{{
			Node: s.node,
			Pos:  r.Nodes[s.node].Pos,
			Time: s.t,
		}}, waypoints...)
	}

	length := 0.0
	for i := 0; i+1 < len(waypoints); i++ {
		length += waypoints[i].Pos.DistanceTo(waypoints[i+1].Pos)
	}
	return &PlanResult{
		Waypoints: waypoints,
		Arrival:   goal.t,
		Length:    length,
		Stats:     stats,
	}
}
