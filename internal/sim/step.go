package sim

import (
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/object"
	"github.com/tomz197/mooncats/internal/physics"
)

// Step advances the simulation by one tick of dt seconds:
// collide → prune → evict → moon → cats → mice → spawns and queued launches.
func (s *State) Step(dt float64) {
	s.resolveCollisions()
	s.evict()

	s.Moon.Advance(dt)

	g := s.gravity()
	for _, c := range s.Cats {
		c.Update(g, dt)
	}
	for _, m := range s.Mice {
		m.Update(s.Moon, dt)
	}

	if s.Spawner != nil {
		for _, p := range s.Spawner.Update(dt) {
			s.AddMouse(p)
		}
	}
	s.flushLaunches()

	s.Tick++
	s.Time += dt
}

// Frame runs substeps ticks of dt each, as the fast-forward mode does.
func (s *State) Frame(dt float64, substeps int) {
	for i := 0; i < substeps; i++ {
		s.Step(dt)
	}
}

// Preview predicts the path of a cat launched from pos with velocity, without
// touching live state. It steps a cloned moon and a scratch cat at the fixed
// unit time and stops at the first collision with the moon or the planet.
// The first point is the launch position.
func (s *State) Preview(pos, velocity r2.Point) []r2.Point {
	return s.preview(s.Moon.Clone(), pos, velocity)
}

// PreviewAt predicts the path of a cat queued with QueueLaunch(angle, power).
// Queued cats enter at the end of the next tick, after the moon has moved, so
// the cloned moon starts one server tick ahead.
func (s *State) PreviewAt(angle, power float64) []r2.Point {
	pos, vel := s.LaunchParams(angle, power)
	moon := s.Moon.Clone()
	moon.Advance(s.cfg.Server.TickTime().Seconds())
	return s.preview(moon, pos, vel)
}

func (s *State) preview(moon *object.Moon, pos, velocity r2.Point) []r2.Point {
	unit := s.cfg.Physics.UnitTime
	steps := s.cfg.Preview.Steps

	catCfg := s.cfg.Cat
	catCfg.FixedTimestep = true
	cat := object.NewCat(0, pos, velocity, catCfg, unit)

	path := make([]r2.Point, 0, steps+1)
	path = append(path, pos)
	for i := 0; i < steps; i++ {
		moon.Advance(unit)
		cat.Update(physics.Attraction{
			Field:  s.field,
			Bodies: []r2.Point{s.Planet.Position(), moon.Position()},
		}, unit)
		path = append(path, cat.Position())

		if physics.Collides(cat, moon) || physics.Collides(cat, s.Planet) {
			break
		}
	}
	return path
}
