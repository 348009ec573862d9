package antiwarp

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TangentPoints returns the points of the circle of given center and radius
// at which a line passing through fixed is tangent to the circle.
// If fixed lies on the circle it is returned as the single tangent point.
// A PointInsideCircle error is returned if fixed lies inside the circle.
func TangentPoints(center r2.Vec, radius float64, fixed r2.Vec) ([]r2.Vec, error) {
	if !(radius > 0) {
		return nil, geomErr(InvalidSpec, "tangent circle radius must be positive, got %g", radius)
	}
	d := r2.Norm(r2.Sub(center, fixed))
	if math.Abs(d-radius) <= epsilon*math.Max(1, radius) {
		return []r2.Vec{fixed}, nil
	}
	if d < radius {
		return nil, geomErr(PointInsideCircle, "point %v at distance %g from center of circle of radius %g", fixed, d, radius)
	}
	theta := math.Asin(radius / d)
	alpha := math.Atan2(center.Y-fixed.Y, center.X-fixed.X)
	beta1 := alpha + theta
	beta2 := alpha - theta
	return []r2.Vec{
		r2.Sub(center, r2.Scale(radius, r2.Vec{X: math.Sin(beta1), Y: -math.Cos(beta1)})),
		r2.Add(center, r2.Scale(radius, r2.Vec{X: math.Sin(beta2), Y: -math.Cos(beta2)})),
	}, nil
}

// SideTangent returns the tangent point from fixed to the circle that lies
// furthest along the side direction.
func SideTangent(center r2.Vec, radius float64, fixed, side r2.Vec) (r2.Vec, error) {
	pts, err := TangentPoints(center, radius, fixed)
	if err != nil {
		return r2.Vec{}, err
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if r2.Dot(p, side) > r2.Dot(best, side) {
			best = p
		}
	}
	return best, nil
}
