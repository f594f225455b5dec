// Command taprmvis visualizes a scenario, its roadmap and a planned
// schedule in a Gio window.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"go.uber.org/zap"

	"github.com/sjschlapbach/ta-prm/internal/env"
	"github.com/sjschlapbach/ta-prm/internal/geom"
	"github.com/sjschlapbach/ta-prm/internal/prm"
	"github.com/sjschlapbach/ta-prm/internal/scenario"
	"github.com/sjschlapbach/ta-prm/internal/vis"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario JSON file (omit for a random demo)")
		seed         = flag.Int64("seed", 1, "roadmap and demo scenario seed")
		samples      = flag.Int("samples", 300, "roadmap sample count")
		radius       = flag.Float64("radius", 15, "connection radius")
		speed        = flag.Float64("speed", 1, "agent speed")
		startX       = flag.Float64("start-x", 1, "start x")
		startY       = flag.Float64("start-y", 1, "start y")
		goalX        = flag.Float64("goal-x", 99, "goal x")
		goalY        = flag.Float64("goal-y", 99, "goal y")
		depart       = flag.Float64("depart", 0, "departure time")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	var sc *scenario.Scenario
	if *scenarioPath != "" {
		sc, err = scenario.Load(*scenarioPath)
		if err != nil {
			logger.Fatal("load scenario", zap.Error(err))
		}
	} else {
		sc = scenario.Random(scenario.DefaultRandomParams(*seed))
	}

	e := sc.Environment()
	inst := env.NewInstance(e, e.Bounds, e.Horizon)

	roadmap, err := prm.Build(inst, prm.BuildParams{
		Samples: *samples,
		Radius:  *radius,
		Speed:   *speed,
		Seed:    *seed,
	}, logger)
	if err != nil {
		logger.Fatal("build roadmap", zap.Error(err))
	}

	// The window stays useful without a feasible plan: the roadmap and
	// obstacles are still shown.
	plan, err := roadmap.Plan(prm.PlanRequest{
		Start:     geom.Pt(*startX, *startY),
		Goal:      geom.Pt(*goalX, *goalY),
		Departure: *depart,
	}, logger)
	if err != nil {
		logger.Warn("planning failed", zap.Error(err))
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("TA-PRM Visualizer"),
			app.Size(unit.Dp(1200), unit.Dp(850)),
		)

		application := vis.NewApp(inst, roadmap, plan, *speed)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
