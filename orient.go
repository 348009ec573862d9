package antiwarp

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ResolveAngle returns the rotation about the vertical axis that points a tab
// anchored at q towards the nearest point of the footprint boundary.
//
// Distances are rounded to whole millimetres so that several boundary points
// fall in the same band. When a contiguous run of points ties for the
// minimum the point at the middle of the run is used.
//
// If the footprint is empty or no point lies at a positive rounded distance
// the angle is 0 and a NoFootprint error is returned. Callers may treat
// this error as a warning.
func ResolveAngle(fp Footprint, q r3.Vec) (float64, error) {
	if len(fp) == 0 {
		return 0, geomErr(NoFootprint, "empty footprint")
	}
	qp := r2.Vec{X: q.X, Y: q.Y}
	minDist := math.Inf(1)
	start, end := -1, -1
	for i, p := range fp {
		d := roundMM(r2.Norm(r2.Sub(qp, p)))
		switch {
		case !(d > 0):
			continue
		case d < minDist:
			minDist = d
			start, end = i, i
		case d == minDist:
			if i == end+1 {
				end = i
			} else {
				start, end = i, i
			}
		}
	}
	if start < 0 {
		return 0, geomErr(NoFootprint, "no boundary point away from %v", qp)
	}
	selected := start
	if end != start {
		selected = int(float64(start) + 0.5*float64(end-start))
	}
	return bearing(r2.Sub(qp, fp[selected])), nil
}

// bearing converts the direction from a boundary point to the query point
// into the tab rotation. The two branches disambiguate the arcsine so that
// the tab's forward axis ends up opposite to dir.
func bearing(dir r2.Vec) float64 {
	u := r2.Unit(dir)
	dot := r2.Dot(u, r2.Vec{Y: 1})
	sin := math.Asin(math.Max(-1, math.Min(1, dot)))
	if u.X >= 0 {
		return pi + sin
	}
	return -sin
}
