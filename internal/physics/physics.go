// Package physics provides Verlet integration, the gravity falloff model and
// circle collision tests. Vectors are r2.Points.
package physics

import (
	"github.com/golang/geo/r2"
)

// Collidable is anything with a circular collision extent.
type Collidable interface {
	Position() r2.Point
	Radius() float64
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r2.Point) float64 {
	return b.Sub(a).Norm()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b r2.Point) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// CirclesOverlap checks if two circles overlap. Circles that exactly touch do not.
func CirclesOverlap(c1 r2.Point, rad1 float64, c2 r2.Point, rad2 float64) bool {
	minDist := rad1 + rad2
	return DistanceSquared(c1, c2) < minDist*minDist
}

// Collides reports whether two collidables overlap. It depends only on the
// centre distance and the summed radii, so Collides(a, b) == Collides(b, a).
func Collides(a, b Collidable) bool {
	return CirclesOverlap(a.Position(), a.Radius(), b.Position(), b.Radius())
}
