package object

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
)

// healthEpsilon absorbs float drift so that ten hits of 0.1 destroy a full moon.
const healthEpsilon = 1e-9

// Moon circles the planet at a constant angular rate. Its position is always
// derived from angle, never integrated.
type Moon struct {
	planet      *Body
	orbitRadius float64
	period      float64
	radius      float64
	damage      float64

	angle     float64
	pos       r2.Point
	health    float64
	destroyed bool
}

// NewMoon creates a full-health moon at angle 0 around planet.
func NewMoon(planet *Body, cfg config.MoonConfig) *Moon {
	m := &Moon{
		planet:      planet,
		orbitRadius: cfg.OrbitRadius,
		period:      cfg.Period,
		radius:      cfg.Radius,
		damage:      cfg.Damage,
		health:      1,
	}
	m.pos = m.orbitPoint(m.angle)
	return m
}

// Advance moves the moon along its orbit by dt seconds.
func (m *Moon) Advance(dt float64) {
	m.angle = math.Mod(m.angle+m.angularStep(dt), 2*math.Pi)
	if m.angle < 0 {
		m.angle += 2 * math.Pi
	}
	m.pos = m.orbitPoint(m.angle)
}

// FuturePosition returns where the moon will be after lead seconds.
// It does not modify the moon.
func (m *Moon) FuturePosition(lead float64) r2.Point {
	return m.orbitPoint(m.angle + m.angularStep(lead))
}

// Clone returns an independent copy sharing the same planet, for previews.
func (m *Moon) Clone() *Moon {
	c := *m
	return &c
}

func (m *Moon) angularStep(dt float64) float64 {
	return 2 * math.Pi * dt / m.period
}

func (m *Moon) orbitPoint(angle float64) r2.Point {
	offset := r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(m.orbitRadius)
	return m.planet.Position().Add(offset)
}

// Position returns the current centre.
func (m *Moon) Position() r2.Point { return m.pos }

// Radius returns the collision radius.
func (m *Moon) Radius() float64 { return m.radius }

// Angle returns the orbit angle in [0, 2π).
func (m *Moon) Angle() float64 { return m.angle }

// Period returns the orbit period in seconds.
func (m *Moon) Period() float64 { return m.period }

// Health returns the remaining health fraction in [0, 1].
func (m *Moon) Health() float64 { return m.health }

// IsDestroyed reports whether health has run out.
func (m *Moon) IsDestroyed() bool { return m.destroyed }

// Hit applies one mouse hit. See TakeDamage.
func (m *Moon) Hit() bool {
	return m.TakeDamage(m.damage)
}

// TakeDamage lowers health by amount. It returns true only for the hit that
// destroys the moon; later hits return false.
func (m *Moon) TakeDamage(amount float64) bool {
	if m.destroyed {
		return false
	}
	m.health -= amount
	if m.health <= healthEpsilon {
		m.health = 0
		m.destroyed = true
		return true
	}
	return false
}
