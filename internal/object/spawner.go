package object

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
)

// maxSpawnsPerUpdate bounds the mice released by one Update. A backlog beyond
// it is dropped.
const maxSpawnsPerUpdate = 16

// MouseSpawner releases mice on the perimeter of the simulation area at an
// interval that shrinks after every spawn.
type MouseSpawner struct {
	area        r2.Rect
	interval    float64
	minInterval float64
	ramp        float64
	timer       float64
	rng         *rand.Rand
}

// NewMouseSpawner creates a spawner for area.
func NewMouseSpawner(area r2.Rect, cfg config.SpawnerConfig, rng *rand.Rand) *MouseSpawner {
	return &MouseSpawner{
		area:        area,
		interval:    cfg.Interval,
		minInterval: cfg.MinInterval,
		ramp:        cfg.Ramp,
		rng:         rng,
	}
}

// Update advances the spawn timer by dt and returns the positions of the mice
// due this tick.
func (s *MouseSpawner) Update(dt float64) []r2.Point {
	s.timer += dt

	var spawned []r2.Point
	for s.timer >= s.interval {
		if len(spawned) == maxSpawnsPerUpdate {
			s.timer = 0
			break
		}
		s.timer -= s.interval
		spawned = append(spawned, PerimeterPoint(s.area, s.rng))
		s.interval = math.Max(s.interval*s.ramp, s.minInterval)
	}
	return spawned
}

// Interval returns the current time between spawns.
func (s *MouseSpawner) Interval() float64 {
	return s.interval
}

// PerimeterPoint picks a uniformly distributed point on the border of area.
func PerimeterPoint(area r2.Rect, rng *rand.Rand) r2.Point {
	lo, hi := area.Lo(), area.Hi()
	size := area.Size()

	d := rng.Float64() * 2 * (size.X + size.Y)
	switch {
	case d < size.X: // Top
		return r2.Point{X: lo.X + d, Y: lo.Y}
	case d < size.X+size.Y: // Right
		return r2.Point{X: hi.X, Y: lo.Y + d - size.X}
	case d < 2*size.X+size.Y: // Bottom
		return r2.Point{X: hi.X - (d - size.X - size.Y), Y: hi.Y}
	default: // Left
		return r2.Point{X: lo.X, Y: hi.Y - (d - 2*size.X - size.Y)}
	}
}
