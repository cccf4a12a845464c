// Package sim owns the simulation state and advances it one tick at a time.
package sim

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
	"github.com/tomz197/mooncats/internal/object"
	"github.com/tomz197/mooncats/internal/physics"
)

// State holds everything that evolves between ticks. It has a single writer:
// whoever calls Step.
type State struct {
	cfg   *config.Config
	field physics.Field
	area  r2.Rect

	Planet  *object.Body
	Moon    *object.Moon
	Cats    []*object.Cat   // Creation order, oldest first
	Mice    []*object.Mouse // Creation order
	Spawner *object.MouseSpawner

	Score int
	Tick  uint64
	Time  float64 // Simulated seconds

	nextID  uint64
	events  []Event
	pending []launch // Launches queued for the end of the tick

	// Broad phase for cat/mouse pairs (reused each tick)
	mouseGrid  *physics.SpatialGrid
	candidates []int
}

// NewState creates a fresh game: planet at the origin, full-health moon at
// angle 0, no cats or mice. seed drives mouse spawn positions.
func NewState(cfg *config.Config, seed int64) *State {
	half := r2.Point{X: cfg.World.Width / 2, Y: cfg.World.Height / 2}
	area := r2.RectFromPoints(half.Mul(-1), half)

	planet := object.NewBody(r2.Point{}, cfg.Planet.Radius)

	// Cell size must cover the widest cat/mouse interaction: attack radius + mouse radius.
	cellSize := cfg.Cat.AttackRadius + cfg.Mouse.Radius

	return &State{
		cfg: cfg,
		field: physics.Field{
			K:           cfg.Physics.GravityK,
			D:           cfg.Physics.DistanceDivisor,
			MinDistance: cfg.Physics.MinDistance,
		},
		area:      area,
		Planet:    planet,
		Moon:      object.NewMoon(planet, cfg.Moon),
		Spawner:   object.NewMouseSpawner(area, cfg.Spawner, rand.New(rand.NewSource(seed))),
		mouseGrid: physics.NewSpatialGrid(area, cellSize),
	}
}

// Config returns the configuration the state was built with.
func (s *State) Config() *config.Config { return s.cfg }

// Area returns the simulation rectangle.
func (s *State) Area() r2.Rect { return s.area }

// Defeated reports whether the moon has been destroyed.
func (s *State) Defeated() bool { return s.Moon.IsDestroyed() }

// gravity is the live pull on cats: planet plus the moon at its current position.
func (s *State) gravity() physics.Gravity {
	return physics.Attraction{
		Field:  s.field,
		Bodies: []r2.Point{s.Planet.Position(), s.Moon.Position()},
	}
}

// AddMouse places a mouse at pos.
func (s *State) AddMouse(pos r2.Point) *object.Mouse {
	s.nextID++
	m := object.NewMouse(s.nextID, pos, s.cfg.Mouse, s.cfg.Physics.UnitTime)
	s.Mice = append(s.Mice, m)
	return m
}

// Launch adds a cat at pos with the given initial velocity.
func (s *State) Launch(pos, velocity r2.Point) *object.Cat {
	s.nextID++
	c := object.NewCat(s.nextID, pos, velocity, s.cfg.Cat, s.cfg.Physics.UnitTime)
	s.Cats = append(s.Cats, c)
	s.emit(Event{Type: EventCatLaunched, Pos: pos})
	return c
}

type launch struct {
	angle, power float64
}

// QueueLaunch schedules a launch for the end of the next Step, after every
// live entity has moved.
func (s *State) QueueLaunch(angle, power float64) {
	s.pending = append(s.pending, launch{angle: angle, power: power})
}

// flushLaunches performs the queued launches.
func (s *State) flushLaunches() {
	for _, l := range s.pending {
		s.LaunchAt(l.angle, l.power)
	}
	s.pending = s.pending[:0]
}

// LaunchAt converts an aim angle (radians) and power into a launch from just
// above the planet surface, and performs it.
func (s *State) LaunchAt(angle, power float64) *object.Cat {
	pos, vel := s.LaunchParams(angle, power)
	return s.Launch(pos, vel)
}

// LaunchParams returns the launch position and velocity for an aim angle and
// power. Power is clamped to the configured range.
func (s *State) LaunchParams(angle, power float64) (pos, velocity r2.Point) {
	dir := r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}
	power = math.Max(s.cfg.Cat.MinPower, math.Min(power, s.cfg.Cat.MaxPower))

	// Start clear of the planet so the cat does not collide on its first tick.
	clearance := s.Planet.Radius() + s.cfg.Cat.Radius + 1
	pos = s.Planet.Position().Add(dir.Mul(clearance))
	return pos, dir.Mul(power)
}

// MostThreatening returns the position of the live mouse closest to the moon.
func (s *State) MostThreatening() (r2.Point, bool) {
	var (
		best  r2.Point
		found bool
		dist  = math.Inf(1)
	)
	for _, m := range s.Mice {
		if m.IsDestroyed() {
			continue
		}
		if d := physics.DistanceSquared(m.Position(), s.Moon.Position()); d < dist {
			best, dist, found = m.Position(), d, true
		}
	}
	return best, found
}

// award scores a kill by c. Longer flights score more, up to the cap.
func (s *State) award(c *object.Cat) int {
	sc := s.cfg.Score
	points := sc.Base + int(c.AirTime()*sc.PerSecond)
	if points > sc.Cap {
		points = sc.Cap
	}
	s.Score += points
	return points
}
