package object

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/config"
)

func testMoon() *Moon {
	planet := NewBody(r2.Point{}, 75)
	return NewMoon(planet, config.MoonConfig{OrbitRadius: 600, Period: 15, Radius: 40, Damage: 0.1})
}

func pointsNear(a, b r2.Point, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}

func TestMoonStartsOnOrbit(t *testing.T) {
	m := testMoon()
	if m.Position() != (r2.Point{X: 600, Y: 0}) {
		t.Errorf("start position = %v, want (600, 0)", m.Position())
	}
	if m.Health() != 1 {
		t.Errorf("start health = %v, want 1", m.Health())
	}
}

func TestMoonHalfPeriodIsOpposite(t *testing.T) {
	m := testMoon()
	start := m.Position()

	// 7.5s at 60 Hz
	for i := 0; i < 450; i++ {
		m.Advance(1.0 / 60)
	}

	want := start.Mul(-1)
	if !pointsNear(m.Position(), want, 1e-6) {
		t.Errorf("position after half period = %v, want %v", m.Position(), want)
	}
}

func TestMoonPeriodicity(t *testing.T) {
	for _, tt := range []float64{0, 1.3, 7.5, 14.99, 100} {
		m := testMoon()
		m.Advance(tt)
		at := m.Position()
		m.Advance(m.Period())
		if !pointsNear(m.Position(), at, 1e-6) {
			t.Errorf("t=%v: position after one period = %v, want %v", tt, m.Position(), at)
		}
	}
}

func TestMoonAngleStaysWrapped(t *testing.T) {
	m := testMoon()
	for i := 0; i < 100000; i++ {
		m.Advance(0.06)
		if m.Angle() < 0 || m.Angle() >= 2*math.Pi {
			t.Fatalf("angle %v outside [0, 2π) after %d steps", m.Angle(), i)
		}
	}
	// 6000s is a whole number of periods.
	if !pointsNear(m.Position(), r2.Point{X: 600, Y: 0}, 1e-6) {
		t.Errorf("position after 6000s = %v, want start", m.Position())
	}
}

func TestMoonFuturePositionIsPure(t *testing.T) {
	m := testMoon()
	m.Advance(2)
	angle, pos := m.Angle(), m.Position()

	for i := 0; i < 50; i++ {
		m.FuturePosition(float64(i) * 0.7)
	}

	if m.Angle() != angle || m.Position() != pos {
		t.Errorf("FuturePosition mutated the moon: angle %v->%v pos %v->%v", angle, m.Angle(), pos, m.Position())
	}
}

func TestMoonFuturePositionMatchesAdvance(t *testing.T) {
	m := testMoon()
	predicted := m.FuturePosition(3.25)
	m.Advance(3.25)
	if !pointsNear(predicted, m.Position(), 1e-9) {
		t.Errorf("FuturePosition(3.25) = %v, Advance(3.25) = %v", predicted, m.Position())
	}
}

func TestMoonCloneIsIndependent(t *testing.T) {
	m := testMoon()
	c := m.Clone()
	c.Advance(4)
	c.TakeDamage(0.5)

	if m.Angle() != 0 || m.Health() != 1 {
		t.Errorf("clone shares state with original: angle=%v health=%v", m.Angle(), m.Health())
	}
	if c.planet != m.planet {
		t.Error("clone should share the planet")
	}
}

func TestMoonDestroyedFiresOnce(t *testing.T) {
	m := testMoon()

	fired := 0
	for i := 0; i < 10; i++ {
		if m.Hit() {
			fired++
			if i != 9 {
				t.Errorf("destroyed on hit %d, want hit 10", i+1)
			}
		}
	}
	if math.Abs(m.Health()) > 1e-9 {
		t.Errorf("health after 10 hits = %v, want 0", m.Health())
	}
	if fired != 1 || !m.IsDestroyed() {
		t.Errorf("destroyed fired %d times (IsDestroyed=%v), want once", fired, m.IsDestroyed())
	}

	if m.Hit() {
		t.Error("hit after destruction reported a second transition")
	}
	if m.Health() != 0 {
		t.Errorf("health went below zero: %v", m.Health())
	}
}
