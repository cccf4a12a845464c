// Command simulate plays the game headlessly with an aiming autopilot and
// writes windowed telemetry as CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tomz197/mooncats/internal/aim"
	"github.com/tomz197/mooncats/internal/config"
	"github.com/tomz197/mooncats/internal/sim"
	"github.com/tomz197/mooncats/internal/telemetry"
)

func main() {
	configPath := flag.String("config", config.GetEnv(config.EnvConfigPath, ""), "path to a YAML config overriding the defaults")
	ticks := flag.Int("ticks", 36000, "maximum number of ticks to simulate")
	seed := flag.Int64("seed", 1, "spawner seed")
	outPath := flag.String("out", "", "CSV output path (stdout when empty)")
	window := flag.Int("window", 300, "ticks per telemetry record")
	launchEvery := flag.Float64("launch-every", 0.5, "simulated seconds between autopilot launches (0 disables)")
	evaluations := flag.Int("evaluations", aim.DefaultEvaluations, "aim solver budget per launch")
	flag.Parse()

	logger := config.NewLogger("simulate")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("loading config", "path", *configPath, "err", err)
	}
	if *window < 1 {
		logger.Fatal("window must be at least 1", "window", *window)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("creating output", "path", *outPath, "err", err)
		}
		defer f.Close()
		out = f
	}

	state := sim.NewState(cfg, *seed)
	pilot := &autopilot{
		solver: aim.Solver{
			MinPower:    cfg.Cat.MinPower,
			MaxPower:    cfg.Cat.MaxPower,
			Evaluations: *evaluations,
		},
		every: *launchEvery,
	}
	collector := telemetry.NewCollector()
	writer := telemetry.NewWriter(out)
	dt := cfg.Server.TickTime().Seconds()

	logger.Info("simulation started", "ticks", *ticks, "seed", *seed, "window", *window)

	for i := 0; i < *ticks && !state.Defeated(); i++ {
		pilot.act(state)
		state.Step(dt)
		collector.Observe(state.DrainEvents())

		if state.Tick%uint64(*window) == 0 {
			if err := writer.Write(collector.Flush(state)); err != nil {
				logger.Fatal("writing telemetry", "err", err)
			}
		}
	}
	if state.Tick%uint64(*window) != 0 {
		if err := writer.Write(collector.Flush(state)); err != nil {
			logger.Fatal("writing telemetry", "err", err)
		}
	}

	sum := collector.Summary(state)
	logger.Info("simulation finished",
		"ticks", sum.Ticks,
		"sim_time", fmt.Sprintf("%.1fs", sum.SimTimeSec),
		"score", sum.Score,
		"launches", sum.Launches,
		"kills", sum.Kills,
		"hit_rate", fmt.Sprintf("%.2f", sum.HitRate),
		"points_p50", sum.PointsP50,
		"points_p90", sum.PointsP90,
		"moon_hits", sum.MoonHits,
		"moon_health", fmt.Sprintf("%.2f", sum.MoonHealth),
		"defeated", sum.Defeated,
	)
}

// autopilot launches one cat at the most threatening mouse every few
// simulated seconds.
type autopilot struct {
	solver aim.Solver
	every  float64
	last   float64
	fired  bool
}

func (p *autopilot) act(s *sim.State) {
	if p.every <= 0 || (p.fired && s.Time-p.last < p.every) {
		return
	}
	target, ok := s.MostThreatening()
	if !ok {
		return
	}
	sol := p.solver.Solve(s, target, s.Planet.Position())
	s.QueueLaunch(sol.Angle, sol.Power)
	p.last, p.fired = s.Time, true
}
