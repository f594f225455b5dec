// Command taprm builds time-aware roadmaps and plans schedules through
// environments with temporal obstacles.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sjschlapbach/ta-prm/internal/config"
	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/observability"
	"github.com/sjschlapbach/ta-prm/internal/prm"
	"github.com/sjschlapbach/ta-prm/internal/rrt"
	"github.com/sjschlapbach/ta-prm/internal/scenario"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "taprm",
	Short:         "Time-aware probabilistic roadmap planner",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = observability.NewLogger(cfg.Logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync(logger)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			observability.Sync(logger)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	rootCmd.AddCommand(planCmd(), genCmd(), benchCmd())
}

// parsePoint parses "x,y".
func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("expected x,y coordinates, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("parse x of %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("parse y of %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}

// loadInstance loads the scenario and materializes a query instance.
func loadInstance(path string) (*env.Instance, error) {
	if path == "" {
		path = cfg.Scenario
	}
	if path == "" {
		return nil, fmt.Errorf("no scenario file given (flag --scenario or config key scenario)")
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	e := sc.Environment()
	for _, rej := range e.Rejected {
		logger.Warn("obstacle rejected",
			zap.Int("index", rej.Index),
			zap.Error(rej.Err))
	}
	logger.Info("scenario loaded",
		zap.String("name", sc.Name),
		zap.Int("obstacles", len(e.Obstacles)))
	return env.NewInstance(e, e.Bounds, e.Horizon), nil
}

func buildParams() prm.BuildParams {
	return prm.BuildParams{
		Samples:      cfg.Planner.Samples,
		Radius:       cfg.Planner.Radius,
		MaxNeighbors: cfg.Planner.MaxNeighbors,
		Speed:        cfg.Planner.Speed,
		Seed:         cfg.Planner.Seed,
		Workers:      cfg.Planner.Workers,
	}
}

func planCmd() *cobra.Command {
	var (
		scenarioPath string
		roadmapPath  string
		saveRoadmap  string
		startStr     string
		goalStr      string
		depart       float64
		deadline     float64
		algo         string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a schedule from start to goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(startStr)
			if err != nil {
				return err
			}
			goal, err := parsePoint(goalStr)
			if err != nil {
				return err
			}

			inst, err := loadInstance(scenarioPath)
			if err != nil {
				return err
			}

			var result *prm.PlanResult
			switch algo {
			case "taprm":
				var roadmap *prm.Roadmap
				if roadmapPath != "" {
					roadmap, err = scenario.LoadRoadmap(roadmapPath, inst)
				} else {
					buildStart := time.Now()
					roadmap, err = prm.Build(inst, buildParams(), logger)
					if err == nil {
						logger.Info("roadmap built",
							zap.Int("nodes", len(roadmap.Nodes)),
							zap.Int("edges", len(roadmap.Edges)),
							zap.Duration("elapsed", time.Since(buildStart)))
					}
				}
				if err != nil {
					return err
				}
				if saveRoadmap != "" {
					if err := scenario.SaveRoadmap(roadmap, saveRoadmap); err != nil {
						return err
					}
				}
				result, err = roadmap.Plan(prm.PlanRequest{
					Start:     start,
					Goal:      goal,
					Departure: depart,
					Deadline:  deadline,
					Budget:    time.Duration(cfg.Planner.BudgetSeconds * float64(time.Second)),
				}, logger)
				if err != nil {
					return err
				}
			case "rrt", "rrt-star":
				result, err = rrt.Replan(inst, rrt.Params{
					StepSize: cfg.Planner.Radius,
					Speed:    cfg.Planner.Speed,
					Seed:     cfg.Planner.Seed,
					Rewire:   algo == "rrt-star",
				}, start, goal, depart, logger)
				if err != nil {
					return err
				}
				if deadline > 0 && result.Arrival > deadline {
					return fmt.Errorf("arrival %g misses deadline %g: %w",
						result.Arrival, deadline, prm.ErrInfeasibleSchedule)
				}
			default:
				return fmt.Errorf("unknown planner %q (taprm, rrt, rrt-star)", algo)
			}

			logger.Info("schedule found",
				zap.Float64("arrival", result.Arrival),
				zap.Float64("length", result.Length),
				zap.Int("expansions", result.Stats.Expansions))

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schedule: %w", err)
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario JSON file")
	cmd.Flags().StringVar(&roadmapPath, "roadmap", "", "load a prebuilt roadmap snapshot instead of building")
	cmd.Flags().StringVar(&saveRoadmap, "save-roadmap", "", "write the roadmap snapshot to this file")
	cmd.Flags().StringVar(&startStr, "start", "", "start position as x,y")
	cmd.Flags().StringVar(&goalStr, "goal", "", "goal position as x,y")
	cmd.Flags().Float64Var(&depart, "depart", 0, "departure time")
	cmd.Flags().Float64Var(&deadline, "deadline", 0, "latest acceptable arrival time, 0 = none")
	cmd.Flags().StringVar(&algo, "algo", "taprm", "planner: taprm, rrt or rrt-star")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the schedule JSON to this file")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func genCmd() *cobra.Command {
	var (
		seed     int64
		out      string
		points   int
		segments int
		polygons int
		moving   bool
		recur    bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := scenario.DefaultRandomParams(seed)
			p.Points = points
			p.Segments = segments
			p.Polygons = polygons
			p.RandomRecurrence = recur
			if !moving {
				p.MovingRatio = 0
			}
			sc := scenario.Random(p)
			if err := sc.Save(out); err != nil {
				return err
			}
			logger.Info("scenario written",
				zap.String("path", out),
				zap.Int("obstacles", len(sc.Obstacles)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "generation seed")
	cmd.Flags().StringVarP(&out, "out", "o", "scenario.json", "output file")
	cmd.Flags().IntVar(&points, "points", 20, "point obstacle count")
	cmd.Flags().IntVar(&segments, "segments", 10, "segment obstacle count")
	cmd.Flags().IntVar(&polygons, "polygons", 10, "polygon obstacle count")
	cmd.Flags().BoolVar(&moving, "moving", true, "include translating obstacles")
	cmd.Flags().BoolVar(&recur, "recurrence", false, "give scheduled obstacles random recurrence")
	return cmd
}

// benchResult is one line of the benchmark report.
type benchResult struct {
	Query        int     `json:"query"`
	Feasible     bool    `json:"feasible"`
	Arrival      float64 `json:"arrival,omitempty"`
	Length       float64 `json:"length,omitempty"`
	Expansions   int     `json:"expansions"`
	FrontierPeak int     `json:"frontier_peak"`
	PlanMs       float64 `json:"plan_ms"`
	Error        string  `json:"error,omitempty"`
}

func benchCmd() *cobra.Command {
	var (
		scenarioPath string
		queries      int
		depart       float64
		output       string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run repeated queries against a scenario and report timings",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			log := logger.With(zap.String("run_id", runID))

			inst, err := loadInstance(scenarioPath)
			if err != nil {
				return err
			}

			buildStart := time.Now()
			roadmap, err := prm.Build(inst, buildParams(), log)
			if err != nil {
				return err
			}
			log.Info("roadmap built",
				zap.Int("nodes", len(roadmap.Nodes)),
				zap.Int("edges", len(roadmap.Edges)),
				zap.Duration("elapsed", time.Since(buildStart)))

			bounds := inst.Bounds()
			corners := []geom.Point{
				geom.Pt(bounds.MinX+1, bounds.MinY+1),
				geom.Pt(bounds.MaxX-1, bounds.MaxY-1),
				geom.Pt(bounds.MinX+1, bounds.MaxY-1),
				geom.Pt(bounds.MaxX-1, bounds.MinY+1),
			}

			var results []benchResult
			for i := 0; i < queries; i++ {
				start := corners[i%len(corners)]
				goal := corners[(i+1)%len(corners)]

				t0 := time.Now()
				res, err := roadmap.Plan(prm.PlanRequest{
					Start:     start,
					Goal:      goal,
					Departure: depart,
					Budget:    time.Duration(cfg.Planner.BudgetSeconds * float64(time.Second)),
				}, log)
				elapsed := time.Since(t0)

				br := benchResult{Query: i, PlanMs: float64(elapsed.Microseconds()) / 1000}
				if err != nil {
					br.Error = err.Error()
					log.Warn("query failed", zap.Int("query", i), zap.Error(err))
				} else {
					br.Feasible = true
					br.Arrival = res.Arrival
					br.Length = res.Length
					br.Expansions = res.Stats.Expansions
					br.FrontierPeak = res.Stats.FrontierPeak
				}
				results = append(results, br)
			}

			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal report: %w", err)
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario JSON file")
	cmd.Flags().IntVar(&queries, "queries", 10, "number of planning queries")
	cmd.Flags().Float64Var(&depart, "depart", 0, "departure time")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report JSON to this file")
	return cmd
}
