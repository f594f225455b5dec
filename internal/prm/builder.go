package prm

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// BuildParams controls roadmap construction. The same seed and
// parameters over the same instance always produce the same roadmap.
type BuildParams struct {
	Samples      int     // number of candidate positions to draw
	Radius       float64 // connection radius
	MaxNeighbors int     // per-node connection cap, 0 = unlimited
	Speed        float64 // nominal traversal speed, default 1
	Seed         int64
	Workers      int // parallel annotation workers, 0 = NumCPU
}

func (p BuildParams) withDefaults() BuildParams {
	if p.Speed <= 0 {
		p.Speed = 1
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	return p
}

// Build samples collision-checked nodes inside the instance bounds,
// connects spatially nearby pairs, and annotates every edge with its
// free-time-interval set. Candidates whose free set is empty are
// discarded; edges are created only when their free set is non-empty.
//
// Sampling is sequential so the node layout depends only on the seed;
// the per-candidate and per-pair interval computations run on a worker
// pool where each worker owns a disjoint output range.
func Build(inst *env.Instance, params BuildParams, logger *zap.Logger) (*Roadmap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := params.withDefaults()

	rng := rand.New(rand.NewSource(p.Seed))
	bounds := inst.Bounds()
	candidates := make([]geom.Point, p.Samples)
	for i := range candidates {
		candidates[i] = geom.Pt(
			bounds.MinX+rng.Float64()*bounds.Width(),
			bounds.MinY+rng.Float64()*bounds.Height(),
		)
	}

	nodeFree := make([]interval.Set, len(candidates))
	parallelRange(len(candidates), p.Workers, func(i int) {
		nodeFree[i] = inst.FreeIntervals(candidates[i])
	})

	r := &Roadmap{
		adj:    make(map[NodeID][]connection),
		inst:   inst,
		params: p,
		Start:  -1,
		Goal:   -1,
	}
	for i, pos := range candidates {
		if nodeFree[i].Empty() {
			continue
		}
		r.Nodes = append(r.Nodes, &Node{ID: NodeID(len(r.Nodes)), Pos: pos, Free: nodeFree[i]})
	}
	logger.Debug("sampled roadmap nodes",
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(r.Nodes)))

	if len(r.Nodes) < 2 {
		return nil, fmt.Errorf("%d usable nodes from %d samples: %w",
			len(r.Nodes), p.Samples, ErrInsufficientConnectivity)
	}

	pairs := candidatePairs(r.Nodes, p.Radius, p.MaxNeighbors)
	edgeFree := make([]interval.Set, len(pairs))
	parallelRange(len(pairs), p.Workers, func(i int) {
		a := r.Nodes[pairs[i][0]]
		b := r.Nodes[pairs[i][1]]
		edgeFree[i] = inst.FreeIntervals(geom.Seg(a.Pos, b.Pos))
	})

	for i, pair := range pairs {
		if edgeFree[i].Empty() {
			continue
		}
		a, b := r.Nodes[pair[0]], r.Nodes[pair[1]]
		length := a.Pos.DistanceTo(b.Pos)
		r.addEdge(&Edge{
			From:     a.ID,
			To:       b.ID,
			Length:   length,
			Duration: length / p.Speed,
			Free:     edgeFree[i],
		})
	}
	logger.Debug("connected roadmap edges",
		zap.Int("pairs", len(pairs)),
		zap.Int("edges", len(r.Edges)))

	if len(r.Edges) == 0 {
		return nil, fmt.Errorf("no connectable node pairs within radius %g: %w",
			p.Radius, ErrInsufficientConnectivity)
	}
	return r, nil
}

// candidatePairs lists node index pairs within the connection radius,
// honouring the per-node neighbour cap by preferring closer pairs.
func candidatePairs(nodes []*Node, radius float64, maxNeighbors int) [][2]int {
	type scored struct {
		i, j int
		dist float64
	}
	var all []scored
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := nodes[i].Pos.DistanceTo(nodes[j].Pos)
			if d > 0 && d <= radius {
				all = append(all, scored{i: i, j: j, dist: d})
			}
		}
	}
	if maxNeighbors <= 0 {
		out := make([][2]int, len(all))
		for k, s := range all {
			out[k] = [2]int{s.i, s.j}
		}
		return out
	}

	sort.Slice(all, func(a, b int) bool {
		if all[a].dist != all[b].dist {
			return all[a].dist < all[b].dist
		}
		if all[a].i != all[b].i {
			return all[a].i < all[b].i
		}
		return all[a].j < all[b].j
	})
	degree := make([]int, len(nodes))
	var out [][2]int
	for _, s := range all {
		if degree[s.i] >= maxNeighbors || degree[s.j] >= maxNeighbors {
			continue
		}
		degree[s.i]++
		degree[s.j]++
		out = append(out, [2]int{s.i, s.j})
	}
	return out
}

// parallelRange runs fn over [0, n) on workers with disjoint chunks.
func parallelRange(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	g, _ := errgroup.WithContext(context.Background())
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// connect inserts pos as a new node and links it to every existing node
// within the connection radius whose connecting segment has a non-empty
// free set. Used for start and goal insertion.
func (r *Roadmap) connect(pos geom.Point) (NodeID, error) {
	free := r.inst.FreeIntervals(pos)
	if free.Empty() {
		return -1, fmt.Errorf("position (%g, %g) is never free: %w", pos.X, pos.Y, ErrInsufficientConnectivity)
	}

	node := &Node{ID: NodeID(len(r.Nodes)), Pos: pos, Free: free}
	connected := false
	var pending []*Edge
	for _, other := range r.Nodes {
		d := pos.DistanceTo(other.Pos)
		if d == 0 || d > r.params.Radius {
			continue
		}
		segFree := r.inst.FreeIntervals(geom.Seg(pos, other.Pos))
		if segFree.Empty() {
			continue
		}
		pending = append(pending, &Edge{
			From:     node.ID,
			To:       other.ID,
			Length:   d,
			Duration: d / r.params.Speed,
			Free:     segFree,
		})
		connected = true
	}
	if !connected {
		return -1, fmt.Errorf("position (%g, %g) has no reachable neighbour within radius %g: %w",
			pos.X, pos.Y, r.params.Radius, ErrInsufficientConnectivity)
	}

	r.Nodes = append(r.Nodes, node)
	for _, e := range pending {
		r.addEdge(e)
	}
	return node.ID, nil
}

// ConnectStart inserts the start position into the roadmap.
func (r *Roadmap) ConnectStart(pos geom.Point) error {
	id, err := r.connect(pos)
	if err != nil {
		return fmt.Errorf("connect start: %w", err)
	}
	r.Start = id
	return nil
}

// ConnectGoal inserts the goal position into the roadmap.
func (r *Roadmap) ConnectGoal(pos geom.Point) error {
	id, err := r.connect(pos)
	if err != nil {
		return fmt.Errorf("connect goal: %w", err)
	}
	r.Goal = id
	return nil
}
