package physics

import "github.com/golang/geo/r2"

// Verlet is position-only integration state. Velocity is implied by the
// difference between the current and previous positions.
type Verlet struct {
	Pos  r2.Point
	Prev r2.Point
}

// NewVerlet seeds the history so that the first step moves the body by
// velocity*unitTime.
func NewVerlet(pos, velocity r2.Point, unitTime float64) Verlet {
	return Verlet{
		Pos:  pos,
		Prev: pos.Sub(velocity.Mul(unitTime)),
	}
}

// Step advances one timestep: next = 2*pos - prev + acc*dt².
func (v *Verlet) Step(acc r2.Point, dt float64) {
	next := v.Pos.Mul(2).Sub(v.Prev).Add(acc.Mul(dt * dt))
	v.Prev = v.Pos
	v.Pos = next
}

// MoveTo moves the body directly, keeping the history consistent so a later
// Step continues with the displacement of this move.
func (v *Verlet) MoveTo(pos r2.Point) {
	v.Prev = v.Pos
	v.Pos = pos
}

// Displacement is the position change over the last step.
func (v Verlet) Displacement() r2.Point {
	return v.Pos.Sub(v.Prev)
}

// Velocity is the displacement divided by the step length.
func (v Verlet) Velocity(dt float64) r2.Point {
	return v.Displacement().Mul(1 / dt)
}
