// Package telemetry aggregates simulation events into windowed CSV records
// and an end-of-run summary.
package telemetry

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/tomz197/mooncats/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one window of ticks.
type WindowStats struct {
	Tick       uint64  `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`

	// Populations at window end
	Cats int `csv:"cats"`
	Mice int `csv:"mice"`

	// Events during window
	Launches int `csv:"launches"`
	Impacts  int `csv:"impacts"`
	Kills    int `csv:"kills"`
	MoonHits int `csv:"moon_hits"`

	Score         int     `csv:"score"`
	MoonHealth    float64 `csv:"moon_health"`
	SpawnInterval float64 `csv:"spawn_interval"`
}

// Summary describes a whole run.
type Summary struct {
	Ticks      uint64
	SimTimeSec float64
	Score      int
	Launches   int
	Kills      int
	MoonHits   int
	MoonHealth float64
	Defeated   bool

	HitRate    float64 // Kills per launch
	PointsMean float64
	PointsP50  float64
	PointsP90  float64
	CatsMean   float64 // Live cats, averaged over windows
}

// Collector counts events between flushes and keeps the totals a summary needs.
type Collector struct {
	window WindowStats

	launches, kills, moonHits int
	points                    []float64
	cats                      []float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Observe records a batch of events.
func (c *Collector) Observe(events []sim.Event) {
	for _, e := range events {
		switch e.Type {
		case sim.EventCatLaunched:
			c.window.Launches++
			c.launches++
		case sim.EventCatImpact:
			c.window.Impacts++
		case sim.EventScore:
			c.window.Kills++
			c.kills++
			c.points = append(c.points, float64(e.Points))
		case sim.EventMoonHit:
			c.window.MoonHits++
			c.moonHits++
		}
	}
}

// Flush closes the current window against s and starts a new one.
func (c *Collector) Flush(s *sim.State) WindowStats {
	w := c.window
	w.Tick = s.Tick
	w.SimTimeSec = s.Time
	w.Cats = len(s.Cats)
	w.Mice = len(s.Mice)
	w.Score = s.Score
	w.MoonHealth = s.Moon.Health()
	if s.Spawner != nil {
		w.SpawnInterval = s.Spawner.Interval()
	}

	c.cats = append(c.cats, float64(w.Cats))
	c.window = WindowStats{}
	return w
}

// Summary reports the totals so far against the final state s.
func (c *Collector) Summary(s *sim.State) Summary {
	sum := Summary{
		Ticks:      s.Tick,
		SimTimeSec: s.Time,
		Score:      s.Score,
		Launches:   c.launches,
		Kills:      c.kills,
		MoonHits:   c.moonHits,
		MoonHealth: s.Moon.Health(),
		Defeated:   s.Defeated(),
	}
	if c.launches > 0 {
		sum.HitRate = float64(c.kills) / float64(c.launches)
	}
	if len(c.points) > 0 {
		sorted := append([]float64(nil), c.points...)
		sort.Float64s(sorted)
		sum.PointsMean = stat.Mean(sorted, nil)
		sum.PointsP50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		sum.PointsP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}
	if len(c.cats) > 0 {
		sum.CatsMean = stat.Mean(c.cats, nil)
	}
	return sum
}

// Writer appends window records to a CSV stream. The header is written with
// the first record.
type Writer struct {
	out           io.Writer
	headerWritten bool
}

// NewWriter creates a CSV writer on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write appends one record.
func (w *Writer) Write(stats WindowStats) error {
	records := []WindowStats{stats}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}
