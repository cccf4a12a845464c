package object

import (
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
)

// InterceptIterations is the fixed number of lead-time refinements a mouse
// performs each tick. It is a budget, not a convergence test.
const InterceptIterations = 5

// FutureTracker predicts where a moving target will be after lead seconds.
type FutureTracker interface {
	FuturePosition(lead float64) r2.Point
}

// Mouse heads for the point where it expects to meet the moon.
type Mouse struct {
	ID uint64

	pos       r2.Point
	radius    float64
	speed     float64
	step      Timestep
	destroyed bool
}

// NewMouse creates a mouse at pos.
func NewMouse(id uint64, pos r2.Point, cfg config.MouseConfig, unitTime float64) *Mouse {
	return &Mouse{
		ID:     id,
		pos:    pos,
		radius: cfg.Radius,
		speed:  cfg.Speed,
		step:   Timestep{Fixed: cfg.FixedTimestep, UnitTime: unitTime},
	}
}

// Intercept estimates the meeting point with target by fixed-point iteration
// on the lead time.
func (m *Mouse) Intercept(target FutureTracker) (lead float64, point r2.Point) {
	for i := 0; i < InterceptIterations; i++ {
		lead = target.FuturePosition(lead).Sub(m.pos).Norm() / m.speed
	}
	return lead, target.FuturePosition(lead)
}

// Update moves the mouse one tick toward its intercept point.
func (m *Mouse) Update(target FutureTracker, dt float64) {
	_, point := m.Intercept(target)
	dir := point.Sub(m.pos).Normalize()
	m.pos = m.pos.Add(dir.Mul(m.speed * m.step.For(dt)))
}

// Position returns the current centre.
func (m *Mouse) Position() r2.Point { return m.pos }

// Radius returns the collision radius.
func (m *Mouse) Radius() float64 { return m.radius }

// Speed returns the travel speed in units per second.
func (m *Mouse) Speed() float64 { return m.speed }

// MarkDestroyed marks the mouse for removal.
func (m *Mouse) MarkDestroyed() { m.destroyed = true }

// IsDestroyed returns true if the mouse is marked for destruction.
func (m *Mouse) IsDestroyed() bool { return m.destroyed }
