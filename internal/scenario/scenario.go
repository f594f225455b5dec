// Package scenario serializes environments and roadmaps to JSON and
// generates randomized planning scenarios for benchmarks and demos.
package scenario

import (
	"fmt"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/interval"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IntervalSpec is the wire form of a time interval. A nil End means
// "forever", since JSON has no representation for +Inf.
type IntervalSpec struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
}

func intervalToSpec(iv interval.Interval) IntervalSpec {
	spec := IntervalSpec{Start: iv.Start}
	if !math.IsInf(iv.End, 1) {
		end := iv.End
		spec.End = &end
	}
	return spec
}

func (s IntervalSpec) interval() interval.Interval {
	end := interval.Forever
	if s.End != nil {
		end = *s.End
	}
	return interval.Span(s.Start, end)
}

// ObstacleSpec is the wire form of a temporal obstacle.
type ObstacleSpec struct {
	Kind       string         `json:"kind"` // "point", "segment" or "polygon"
	Coords     [][2]float64   `json:"coords"`
	Radius     float64        `json:"radius,omitempty"`
	Activity   []IntervalSpec `json:"activity,omitempty"` // empty = always active
	Recurrence string         `json:"recurrence,omitempty"`
	Velocity   *[2]float64    `json:"velocity,omitempty"`
}

// Scenario is a complete serialized environment description.
type Scenario struct {
	Name      string         `json:"name"`
	Bounds    [4]float64     `json:"bounds"` // minX, minY, maxX, maxY
	Horizon   IntervalSpec   `json:"horizon"`
	Obstacles []ObstacleSpec `json:"obstacles"`
}

// obstacle converts the spec to an env.Obstacle. Shape validation is
// left to Environment.Add so malformed specs are rejected per obstacle.
func (s ObstacleSpec) obstacle() (*env.Obstacle, error) {
	var shape geom.Shape
	switch s.Kind {
	case "point":
		if len(s.Coords) < 1 {
			return nil, fmt.Errorf("point obstacle without coordinates: %w", geom.ErrDegenerateGeometry)
		}
		shape = geom.Pt(s.Coords[0][0], s.Coords[0][1])
	case "segment":
		if len(s.Coords) < 2 {
			return nil, fmt.Errorf("segment obstacle with %d coordinates: %w", len(s.Coords), geom.ErrDegenerateGeometry)
		}
		shape = geom.Seg(geom.Pt(s.Coords[0][0], s.Coords[0][1]), geom.Pt(s.Coords[1][0], s.Coords[1][1]))
	case "polygon":
		ring := make([]geom.Point, len(s.Coords))
		for i, c := range s.Coords {
			ring[i] = geom.Pt(c[0], c[1])
		}
		poly, err := geom.NewPolygon(ring)
		if err != nil {
			return nil, err
		}
		shape = poly
	default:
		return nil, fmt.Errorf("unknown obstacle kind %q: %w", s.Kind, geom.ErrDegenerateGeometry)
	}

	rec, ok := env.ParseRecurrence(s.Recurrence)
	if !ok {
		return nil, fmt.Errorf("unknown recurrence %q: %w", s.Recurrence, geom.ErrDegenerateGeometry)
	}

	activity := make([]interval.Interval, 0, len(s.Activity))
	for _, iv := range s.Activity {
		activity = append(activity, iv.interval())
	}

	o := &env.Obstacle{
		Shape:      shape,
		Radius:     s.Radius,
		Activity:   interval.Normalize(activity),
		Recurrence: rec,
	}
	if s.Velocity != nil {
		o.Velocity = geom.Pt(s.Velocity[0], s.Velocity[1])
	}
	return o, nil
}

// Environment materializes the scenario. Obstacles that fail to convert
// or validate are recorded in the environment's Rejected list.
func (sc *Scenario) Environment() *env.Environment {
	bounds := geom.Rect{MinX: sc.Bounds[0], MinY: sc.Bounds[1], MaxX: sc.Bounds[2], MaxY: sc.Bounds[3]}
	e := env.NewEnvironment(bounds, sc.Horizon.interval())
	for i, spec := range sc.Obstacles {
		o, err := spec.obstacle()
		if err != nil {
			e.Rejected = append(e.Rejected, env.RejectedObstacle{Index: i, Err: err})
			continue
		}
		e.Add(o)
	}
	return e
}

// FromEnvironment captures an environment back into its wire form.
func FromEnvironment(e *env.Environment, name string) *Scenario {
	sc := &Scenario{
		Name:    name,
		Bounds:  [4]float64{e.Bounds.MinX, e.Bounds.MinY, e.Bounds.MaxX, e.Bounds.MaxY},
		Horizon: intervalToSpec(e.Horizon),
	}
	for _, o := range e.Obstacles {
		spec := ObstacleSpec{Radius: o.Radius, Recurrence: ""}
		if o.Recurrence != env.None {
			spec.Recurrence = o.Recurrence.String()
		}
		switch s := o.Shape.(type) {
		case geom.Point:
			spec.Kind = "point"
			spec.Coords = [][2]float64{{s.X, s.Y}}
		case geom.Segment:
			spec.Kind = "segment"
			spec.Coords = [][2]float64{{s.A.X, s.A.Y}, {s.B.X, s.B.Y}}
		case geom.Polygon:
			spec.Kind = "polygon"
			for _, p := range s.Vertices {
				spec.Coords = append(spec.Coords, [2]float64{p.X, p.Y})
			}
		}
		for _, iv := range o.Activity {
			spec.Activity = append(spec.Activity, intervalToSpec(iv))
		}
		if !o.Velocity.IsZero() {
			spec.Velocity = &[2]float64{o.Velocity.X, o.Velocity.Y}
		}
		sc.Obstacles = append(sc.Obstacles, spec)
	}
	return sc
}

// Save writes the scenario as JSON.
func (sc *Scenario) Save(path string) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// Load reads a scenario from a JSON file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}
