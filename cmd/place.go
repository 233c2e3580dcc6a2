package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnegilmore/microplace/internal/errs"
	"github.com/arnegilmore/microplace/internal/exactengine"
	"github.com/arnegilmore/microplace/internal/logging"
	"github.com/arnegilmore/microplace/internal/pricing"
	"github.com/arnegilmore/microplace/internal/pso"
	"github.com/arnegilmore/microplace/internal/report"
	"github.com/arnegilmore/microplace/internal/scenario"
	"github.com/arnegilmore/microplace/internal/telemetry"
)

var placeFlags struct {
	seed             int64
	output           string
	logFile          string
	logLevel         string
	format           string
	particles        int
	iterations       int
	inertia          float64
	cognitive        float64
	social           float64
	randomInit       bool
	zeroVelocity     bool
	velocityHandling string
	positionHandling string
	noDataCost       bool
	refreshPricing   bool
}

var placeCmd = &cobra.Command{
	Use:   "place <exact|pso> <scenario.yaml>",
	Short: "Solve a placement scenario with the exact or PSO engine",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlace,
}

func init() {
	f := placeCmd.Flags()
	f.Int64Var(&placeFlags.seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&placeFlags.output, "output", "", "output path (default stdout)")
	f.StringVar(&placeFlags.logFile, "log-file", "", "log file path (default stdout)")
	f.StringVar(&placeFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&placeFlags.format, "format", "text", "report format: text, json")
	f.IntVar(&placeFlags.particles, "particles", 20, "PSO: population size")
	f.IntVar(&placeFlags.iterations, "iterations", 100, "PSO: iteration budget")
	f.Float64Var(&placeFlags.inertia, "inertia", 0.75, "PSO: inertia weight")
	f.Float64Var(&placeFlags.cognitive, "cognitive", 0.125, "PSO: cognitive weight")
	f.Float64Var(&placeFlags.social, "social", 0.125, "PSO: social weight")
	f.BoolVar(&placeFlags.randomInit, "random-init", false, "PSO: random position init instead of viable")
	f.BoolVar(&placeFlags.zeroVelocity, "zero-velocity", false, "PSO: zero velocity init instead of random")
	f.StringVar(&placeFlags.velocityHandling, "velocity-handling", "boundary", "PSO: none, boundary, periodic, random")
	f.StringVar(&placeFlags.positionHandling, "position-handling", "boundary", "PSO: none, boundary, periodic, random, reflecting")
	f.BoolVar(&placeFlags.noDataCost, "no-data-cost", false, "exact: disable pair/data-cost modelling (cost-only mode)")
	f.BoolVar(&placeFlags.refreshPricing, "refresh-pricing", false, "refresh Node.Cost from AWS on-demand pricing before solving")

	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	engineName, scenarioPath := args[0], args[1]
	if engineName != "exact" && engineName != "pso" {
		return errs.NewConfigError("engine", "must be \"exact\" or \"pso\", got "+engineName)
	}

	logger, err := logging.Setup(placeFlags.logLevel, placeFlags.logFile, cfg.Logging.JSON)
	if err != nil {
		return err
	}

	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	if placeFlags.refreshPricing {
		if err := refreshPricing(cmd.Context(), logger, s); err != nil {
			return err
		}
	}

	out := os.Stdout
	if placeFlags.output != "" {
		f, err := os.Create(placeFlags.output)
		if err != nil {
			return errs.NewConfigError("output", err.Error())
		}
		defer f.Close()
		out = f
	}

	if engineName == "exact" {
		return runExact(cmd.Context(), s, out)
	}
	return runPSO(cmd, s, logger, out)
}

func refreshPricing(ctx context.Context, logger *slog.Logger, s *scenario.Scenario) error {
	enricher, err := pricing.New(ctx, cfg.Pricing.CacheDir)
	if err != nil {
		return err
	}
	nodes := make([]*scenario.Node, len(s.Nodes))
	for i := range s.Nodes {
		nodes[i] = &s.Nodes[i]
	}
	n, err := enricher.Refresh(ctx, nodes)
	if err != nil {
		return err
	}
	logger.Info("refreshed node pricing", "nodes_priced", n, "nodes_total", len(s.Nodes))
	return nil
}

func runExact(ctx context.Context, s *scenario.Scenario, out *os.File) error {
	e := exactengine.New(s)
	e.ModelDataCost = !placeFlags.noDataCost

	mp, cost, err := e.Solve(ctx)
	if err != nil {
		return err
	}
	return report.NewReporter(placeFlags.format, out).Report(s, mp, cost)
}

func runPSO(cmd *cobra.Command, s *scenario.Scenario, logger *slog.Logger, out *os.File) error {
	// Config-file values are the defaults; a flag only overrides them when
	// the user actually passed it, so "--config path" keeps meaning what
	// spec §6.2 says it means.
	changed := cmd.Flags().Changed

	pCfg := cfg.PSO
	if changed("particles") {
		pCfg.Particles = placeFlags.particles
	}
	if changed("iterations") {
		pCfg.Iterations = placeFlags.iterations
	}
	if changed("inertia") {
		pCfg.Inertia = placeFlags.inertia
	}
	if changed("cognitive") {
		pCfg.Cognitive = placeFlags.cognitive
	}
	if changed("social") {
		pCfg.Social = placeFlags.social
	}
	if changed("velocity-handling") {
		pCfg.VelocityHandling = placeFlags.velocityHandling
	}
	if changed("position-handling") {
		pCfg.PositionHandling = placeFlags.positionHandling
	}
	if changed("random-init") {
		pCfg.RandomInitPosition = placeFlags.randomInit
	}
	if changed("zero-velocity") {
		pCfg.ZeroInitVelocity = placeFlags.zeroVelocity
	}

	var rec *telemetry.Recorder
	if cfg.Telemetry.Enabled {
		rec = telemetry.NewRecorder()
	}

	e, err := pso.New(s, pso.Config{
		Particles:          pCfg.Particles,
		Iterations:         pCfg.Iterations,
		Inertia:            pCfg.Inertia,
		Cognitive:          pCfg.Cognitive,
		Social:             pCfg.Social,
		RandomInitPosition: pCfg.RandomInitPosition,
		ZeroInitVelocity:   pCfg.ZeroInitVelocity,
		VelocityHandling:   pCfg.VelocityHandling,
		PositionHandling:   pCfg.PositionHandling,
		Seed:               placeFlags.seed,
		Parallelism:        pCfg.Parallelism,
		Logger:             logger,
		Telemetry:          rec,
	})
	if err != nil {
		return err
	}

	mp, cost, err := e.Solve()
	if err != nil {
		return err
	}
	return report.NewReporter(placeFlags.format, out).Report(s, mp, cost)
}
