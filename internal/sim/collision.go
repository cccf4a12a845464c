package sim

import (
	"slices"

	"github.com/tomz197/mooncats/internal/object"
	"github.com/tomz197/mooncats/internal/physics"
)

// resolveCollisions applies the collision rules in a fixed order against the
// positions produced by the previous tick, then compacts the collections.
// Entities are only marked during the pass; nothing is removed until the end.
func (s *State) resolveCollisions() {
	s.checkCatBodyCollisions()
	s.checkMouseBodyCollisions()
	s.checkCatMouseCollisions()
	s.compact()
}

// checkCatBodyCollisions kills cats that hit the planet or the moon. The moon
// takes no damage from cats.
func (s *State) checkCatBodyCollisions() {
	for _, c := range s.Cats {
		if c.IsDestroyed() {
			continue
		}
		if physics.Collides(c, s.Planet) || physics.Collides(c, s.Moon) {
			c.MarkDestroyed()
			s.emit(Event{Type: EventCatImpact, Pos: c.Position()})
		}
	}
}

// checkMouseBodyCollisions removes mice that reach the planet (harmless) and
// the moon (one hit of damage each).
func (s *State) checkMouseBodyCollisions() {
	for _, m := range s.Mice {
		if m.IsDestroyed() {
			continue
		}
		if physics.Collides(m, s.Planet) {
			m.MarkDestroyed()
		}
	}

	for _, m := range s.Mice {
		if m.IsDestroyed() {
			continue
		}
		if !physics.Collides(m, s.Moon) {
			continue
		}
		m.MarkDestroyed()
		if s.Moon.IsDestroyed() {
			continue
		}
		destroyed := s.Moon.Hit()
		s.emit(Event{Type: EventMoonHit, Pos: m.Position(), Health: s.Moon.Health()})
		if destroyed {
			s.emit(Event{Type: EventMoonDestroyed, Pos: s.Moon.Position(), Health: 0})
		}
	}
}

// checkCatMouseCollisions handles target acquisition and kills. Pairs are
// visited in creation order for both cats and mice so the outcome does not
// depend on the broad phase.
func (s *State) checkCatMouseCollisions() {
	s.mouseGrid.Clear()
	for i, m := range s.Mice {
		if !m.IsDestroyed() {
			s.mouseGrid.Insert(m.Position(), i)
		}
	}

	for _, c := range s.Cats {
		if c.IsDestroyed() {
			continue
		}

		s.candidates = s.candidates[:0]
		s.mouseGrid.QueryAround(c.Position(), func(i int) bool {
			s.candidates = append(s.candidates, i)
			return false
		})
		slices.Sort(s.candidates)

		for _, i := range s.candidates {
			m := s.Mice[i]
			if m.IsDestroyed() {
				continue
			}
			// A target claimed earlier in this pass no longer holds the cat.
			if (c.Target() == nil || c.Target().IsDestroyed()) && c.InReach(m) {
				c.Lock(m)
			}
			if physics.Collides(c, m) {
				c.MarkDestroyed()
				m.MarkDestroyed()
				points := s.award(c)
				s.emit(Event{Type: EventScore, Pos: m.Position(), Points: points})
				break // c is destroyed, stop checking
			}
		}
	}
}

// compact drops every destroyed entity, preserving creation order.
func (s *State) compact() {
	s.Cats = slices.DeleteFunc(s.Cats, (*object.Cat).IsDestroyed)
	s.Mice = slices.DeleteFunc(s.Mice, (*object.Mouse).IsDestroyed)
}

// evict enforces the live-cat budget by dropping the oldest cats in bulk.
func (s *State) evict() {
	limit, batch := s.cfg.Physics.MaxCats, s.cfg.Physics.EvictBatch
	for len(s.Cats) > limit {
		s.Cats = slices.Delete(s.Cats, 0, min(batch, len(s.Cats)))
	}
}
