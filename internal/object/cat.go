package object

import (
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
	"github.com/tomz197/mooncats/internal/physics"
)

// Cat is a catapulted projectile. It flies ballistically under gravity until a
// mouse enters its attack radius, then homes on that mouse at the speed it had
// when it locked on.
type Cat struct {
	ID uint64 // creation order; lower is older

	motion       physics.Verlet
	radius       float64
	attackRadius float64
	step         Timestep
	lastStep     float64

	target      *Mouse
	homingSpeed float64 // units per second
	airTime     float64
	destroyed   bool
}

// NewCat launches a cat from pos with the given initial velocity.
func NewCat(id uint64, pos, velocity r2.Point, cfg config.CatConfig, unitTime float64) *Cat {
	return &Cat{
		ID:           id,
		motion:       physics.NewVerlet(pos, velocity, unitTime),
		radius:       cfg.Radius,
		attackRadius: cfg.AttackRadius,
		step:         Timestep{Fixed: cfg.FixedTimestep, UnitTime: unitTime},
		lastStep:     unitTime,
	}
}

// Update advances the cat by one tick. Ballistic cats integrate g; homing cats
// move straight at their target.
func (c *Cat) Update(g physics.Gravity, dt float64) {
	h := c.step.For(dt)
	c.lastStep = h
	c.airTime += h

	// Target died to another cat: fall back to ballistic flight.
	if c.target != nil && c.target.IsDestroyed() {
		c.target = nil
	}

	if c.target != nil {
		dir := c.target.Position().Sub(c.motion.Pos).Normalize()
		c.motion.MoveTo(c.motion.Pos.Add(dir.Mul(c.homingSpeed * h)))
		return
	}

	c.motion.Step(g.At(c.motion.Pos), h)
}

// Lock switches the cat to homing on m, capturing its current speed.
func (c *Cat) Lock(m *Mouse) {
	c.target = m
	c.homingSpeed = c.motion.Displacement().Norm() / c.lastStep
}

// Position returns the current centre.
func (c *Cat) Position() r2.Point { return c.motion.Pos }

// Previous returns the position one step ago.
func (c *Cat) Previous() r2.Point { return c.motion.Prev }

// Radius returns the body collision radius.
func (c *Cat) Radius() float64 { return c.radius }

// AttackRadius returns the range at which the cat acquires a target.
func (c *Cat) AttackRadius() float64 { return c.attackRadius }

// Target returns the locked mouse, or nil while ballistic.
func (c *Cat) Target() *Mouse { return c.target }

// HomingSpeed returns the captured speed in units per second (0 until locked).
func (c *Cat) HomingSpeed() float64 { return c.homingSpeed }

// AirTime returns the simulated seconds since launch.
func (c *Cat) AirTime() float64 { return c.airTime }

// MarkDestroyed marks the cat for removal.
func (c *Cat) MarkDestroyed() { c.destroyed = true }

// IsDestroyed returns true if the cat is marked for destruction.
func (c *Cat) IsDestroyed() bool { return c.destroyed }

// attackCircle is the cat's acquisition range as a collidable.
type attackCircle struct{ c *Cat }

func (a attackCircle) Position() r2.Point { return a.c.Position() }
func (a attackCircle) Radius() float64    { return a.c.attackRadius }

// InReach reports whether m is inside the cat's attack radius.
func (c *Cat) InReach(m *Mouse) bool {
	return physics.Collides(attackCircle{c}, m)
}
