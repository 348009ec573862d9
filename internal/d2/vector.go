package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EqualWithin reports whether a and b differ by at most tol in every component.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Rotate rotates v counter-clockwise about the origin by angle radians.
func Rotate(v r2.Vec, angle float64) r2.Vec {
	s, c := math.Sincos(angle)
	return r2.Vec{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// Cross returns the z component of the cross product of a and b.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

type Pol struct {
	R, Theta float64
}

// PolarToCartesian converts a polar to a cartesian coordinate.
func (a Pol) PolarToCartesian() r2.Vec {
	return r2.Vec{X: a.R * math.Cos(a.Theta), Y: a.R * math.Sin(a.Theta)}
}
