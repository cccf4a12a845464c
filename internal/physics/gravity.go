package physics

import "github.com/golang/geo/r2"

// Field is the gravity falloff model shared by every attracting body:
//
//	a = K * normalize(body - point) / (dist/D)²
//
// Distances below MinDistance are clamped so a point at a body centre never
// produces Inf or NaN.
type Field struct {
	K           float64
	D           float64
	MinDistance float64
}

// AccelerationFrom returns the acceleration a body at bodyPos exerts on point.
// A point exactly at the body centre has no direction and gets zero.
func (f Field) AccelerationFrom(bodyPos, point r2.Point) r2.Point {
	delta := bodyPos.Sub(point)
	dist := delta.Norm()
	if dist < f.MinDistance {
		dist = f.MinDistance
	}
	scaled := dist / f.D
	return delta.Normalize().Mul(f.K / (scaled * scaled))
}

// Total sums the contributions of every body at point.
func (f Field) Total(point r2.Point, bodies ...r2.Point) r2.Point {
	var acc r2.Point
	for _, b := range bodies {
		acc = acc.Add(f.AccelerationFrom(b, point))
	}
	return acc
}

// Gravity yields the acceleration experienced at a point.
type Gravity interface {
	At(point r2.Point) r2.Point
}

// Attraction is the combined pull of a set of bodies under a Field.
type Attraction struct {
	Field  Field
	Bodies []r2.Point
}

// At implements Gravity.
func (a Attraction) At(point r2.Point) r2.Point {
	return a.Field.Total(point, a.Bodies...)
}

// Uniform is a constant acceleration everywhere.
type Uniform r2.Point

// At implements Gravity.
func (u Uniform) At(r2.Point) r2.Point {
	return r2.Point(u)
}
