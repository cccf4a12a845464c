// Package object holds the simulation entities: the planet, the orbiting moon,
// catapulted cats and homing mice.
package object

import (
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/physics"
)

// Destructible is implemented by entities that can be marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}

// Timestep selects the step length an entity kind integrates with. Fixed kinds
// always step by UnitTime regardless of the frame delta, which keeps their
// trajectories deterministic.
type Timestep struct {
	Fixed    bool
	UnitTime float64
}

// For returns the step length to use for a frame delta of dt.
func (t Timestep) For(dt float64) float64 {
	if t.Fixed {
		return t.UnitTime
	}
	return dt
}

// Body is an immovable circular body (the planet).
type Body struct {
	pos    r2.Point
	radius float64
}

// NewBody creates a body at pos.
func NewBody(pos r2.Point, radius float64) *Body {
	return &Body{pos: pos, radius: radius}
}

// Position returns the body centre.
func (b *Body) Position() r2.Point { return b.pos }

// Radius returns the collision radius.
func (b *Body) Radius() float64 { return b.radius }

var (
	_ physics.Collidable = (*Body)(nil)
	_ physics.Collidable = (*Moon)(nil)
	_ physics.Collidable = (*Cat)(nil)
	_ physics.Collidable = (*Mouse)(nil)
	_ Destructible       = (*Cat)(nil)
	_ Destructible       = (*Mouse)(nil)
)
