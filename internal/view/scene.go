package view

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/sim"
)

// orbitDots is how many dots mark the moon's orbit.
const orbitDots = 48

// DrawScene draws snap onto c. The preview of client self is drawn dotted;
// pass 0 to draw no preview.
func DrawScene(c *Canvas, snap *sim.Snapshot, self int) {
	c.Clear()

	orbit := snap.Moon.Pos.Sub(snap.Planet.Pos).Norm()
	for i := 0; i < orbitDots; i++ {
		a := 2 * math.Pi * float64(i) / orbitDots
		c.Dot(snap.Planet.Pos.Add(r2.Point{X: math.Cos(a), Y: math.Sin(a)}.Mul(orbit)))
	}

	c.FillCircle(snap.Planet.Pos, snap.Planet.Radius)
	if !snap.Defeated {
		c.FillCircle(snap.Moon.Pos, snap.Moon.Radius)
	}

	for _, m := range snap.Mice {
		c.FillCircle(m.Pos, m.Radius)
	}
	for _, cat := range snap.Cats {
		c.FillCircle(cat.Pos, cat.Radius)
	}

	if path, ok := snap.Previews[self]; ok && self != 0 {
		c.Dotted(path, 3)
	}
}
