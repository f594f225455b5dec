package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sjschlapbach/ta-prm/internal/interval"
)

// RandomParams controls randomized scenario generation. The same seed
// always produces the same scenario.
type RandomParams struct {
	Seed     int64
	Points   int
	Segments int
	Polygons int

	MinX, MaxX float64
	MinY, MaxY float64
	Horizon    float64 // scenario horizon end, start is 0

	MinRadius float64
	MaxRadius float64
	MaxSize   float64 // maximum extent of segments/polygons
	MinPoly   int     // vertex count range for polygons
	MaxPoly   int

	// Activity intervals are drawn inside [IntervalMin, IntervalMax].
	IntervalMin float64
	IntervalMax float64

	StaticRatio      float64 // fraction of obstacles that are always active
	RandomRecurrence bool    // give scheduled obstacles a random recurrence
	MaxSpeed         float64 // > 0 enables translating obstacles
	MovingRatio      float64 // fraction of scheduled obstacles that translate
}

// DefaultRandomParams mirrors the scenario sizes used by the benchmark
// suite.
func DefaultRandomParams(seed int64) RandomParams {
	return RandomParams{
		Seed:        seed,
		Points:      20,
		Segments:    10,
		Polygons:    10,
		MinX:        0, MaxX: 100,
		MinY:        0, MaxY: 100,
		Horizon:     100,
		MinRadius:   0.5,
		MaxRadius:   3,
		MaxSize:     8,
		MinPoly:     3,
		MaxPoly:     7,
		IntervalMin: 0,
		IntervalMax: 100,
		StaticRatio: 0.3,
		MaxSpeed:    2,
		MovingRatio: 0.25,
	}
}

// Random generates a scenario with randomized point, segment and
// polygon obstacles, random activity intervals and an optional mix of
// recurring and translating obstacles.
func Random(p RandomParams) *Scenario {
	rng := rand.New(rand.NewSource(p.Seed))
	if p.MinPoly < 3 {
		p.MinPoly = 3
	}
	if p.MaxPoly < p.MinPoly {
		p.MaxPoly = p.MinPoly
	}

	sc := &Scenario{
		Name:    fmt.Sprintf("random_%d", p.Seed),
		Bounds:  [4]float64{p.MinX, p.MinY, p.MaxX, p.MaxY},
		Horizon: intervalToSpec(interval.Span(0, p.Horizon)),
	}

	randPt := func() [2]float64 {
		return [2]float64{
			p.MinX + rng.Float64()*(p.MaxX-p.MinX),
			p.MinY + rng.Float64()*(p.MaxY-p.MinY),
		}
	}

	decorate := func(spec *ObstacleSpec) {
		spec.Radius = p.MinRadius + rng.Float64()*(p.MaxRadius-p.MinRadius)
		if rng.Float64() < p.StaticRatio {
			return // always active, stationary
		}

		a := p.IntervalMin + rng.Float64()*(p.IntervalMax-p.IntervalMin)
		b := p.IntervalMin + rng.Float64()*(p.IntervalMax-p.IntervalMin)
		if b < a {
			a, b = b, a
		}
		end := b
		spec.Activity = []IntervalSpec{{Start: a, End: &end}}

		if p.RandomRecurrence {
			// Recurrence periods must exceed the interval length.
			options := []string{""}
			if b-a < 60 {
				options = append(options, "minutely")
			}
			if b-a < 3600 {
				options = append(options, "hourly")
			}
			if b-a < 86400 {
				options = append(options, "daily")
			}
			spec.Recurrence = options[rng.Intn(len(options))]
		}

		if p.MaxSpeed > 0 && rng.Float64() < p.MovingRatio {
			angle := rng.Float64() * 2 * math.Pi
			speed := rng.Float64() * p.MaxSpeed
			spec.Velocity = &[2]float64{speed * math.Cos(angle), speed * math.Sin(angle)}
		}
	}

	for i := 0; i < p.Points; i++ {
		spec := ObstacleSpec{Kind: "point", Coords: [][2]float64{randPt()}}
		decorate(&spec)
		sc.Obstacles = append(sc.Obstacles, spec)
	}

	for i := 0; i < p.Segments; i++ {
		a := randPt()
		angle := rng.Float64() * 2 * math.Pi
		length := rng.Float64() * p.MaxSize
		b := [2]float64{a[0] + length*math.Cos(angle), a[1] + length*math.Sin(angle)}
		spec := ObstacleSpec{Kind: "segment", Coords: [][2]float64{a, b}}
		decorate(&spec)
		sc.Obstacles = append(sc.Obstacles, spec)
	}

	for i := 0; i < p.Polygons; i++ {
		center := randPt()
		n := p.MinPoly + rng.Intn(p.MaxPoly-p.MinPoly+1)
		coords := make([][2]float64, 0, n)
		// Sorted angles keep the ring simple (non self-intersecting).
		angles := make([]float64, n)
		for j := range angles {
			angles[j] = rng.Float64() * 2 * math.Pi
		}
		sort.Float64s(angles)
		for _, ang := range angles {
			rad := (0.3 + 0.7*rng.Float64()) * p.MaxSize / 2
			coords = append(coords, [2]float64{
				center[0] + rad*math.Cos(ang),
				center[1] + rad*math.Sin(ang),
			})
		}
		spec := ObstacleSpec{Kind: "polygon", Coords: coords}
		decorate(&spec)
		sc.Obstacles = append(sc.Obstacles, spec)
	}

	return sc
}
