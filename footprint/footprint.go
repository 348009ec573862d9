// Package footprint derives build plate outlines of triangle meshes.
//
// The outline of an object is the convex hull of its vertices projected onto
// the plate. The adhesion area is that outline grown by a margin, which is
// where a brim or tab pad ends up touching the object's first layer.
package footprint

import (
	"errors"
	"math"
	"sort"

	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/internal/d2"
	"github.com/soypat/antiwarp/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSegments is the number of segments used to approximate the
// rounded corners of an offset outline.
const DefaultSegments = 16

// Project drops the vertical component of every triangle vertex.
func Project(model []r3.Triangle) []r2.Vec {
	pts := make([]r2.Vec, 0, 3*len(model))
	for _, tri := range model {
		for _, v := range tri {
			pts = append(pts, d3.ToR2(v))
		}
	}
	return pts
}

// Hull returns the plate outline of model.
func Hull(model []r3.Triangle) antiwarp.Footprint {
	return ConvexHull(Project(model))
}

// AdhesionArea returns the plate outline of model grown by margin.
func AdhesionArea(model []r3.Triangle, margin float64) (antiwarp.Footprint, error) {
	return Offset(Hull(model), margin, DefaultSegments)
}

// ConvexHull returns the convex hull of pts in counter-clockwise order
// starting at the lowest-left point. Collinear points are dropped.
// The input is not modified.
func ConvexHull(pts []r2.Vec) antiwarp.Footprint {
	if len(pts) == 0 {
		return nil
	}
	sorted := make([]r2.Vec, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	sorted = dedup(sorted)
	if len(sorted) < 3 {
		return antiwarp.Footprint(sorted)
	}
	// Andrew's monotone chain.
	hull := make(antiwarp.Footprint, 0, 2*len(sorted))
	for _, p := range sorted {
		hull = popConcave(hull, p, 0)
		hull = append(hull, p)
	}
	lower := len(hull)
	for i := len(sorted) - 2; i >= 0; i-- {
		hull = popConcave(hull, sorted[i], lower-1)
		hull = append(hull, sorted[i])
	}
	// Last point repeats the first.
	return hull[:len(hull)-1]
}

// popConcave drops trailing hull points above index floor that would make a
// clockwise or straight turn towards p.
func popConcave(hull antiwarp.Footprint, p r2.Vec, floor int) antiwarp.Footprint {
	for len(hull) >= floor+2 {
		a, b := hull[len(hull)-2], hull[len(hull)-1]
		if d2.Cross(r2.Sub(b, a), r2.Sub(p, a)) > 0 {
			break
		}
		hull = hull[:len(hull)-1]
	}
	return hull
}

func dedup(sorted []r2.Vec) []r2.Vec {
	out := sorted[:0]
	for i, p := range sorted {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Offset grows a convex outline by margin. The result is the Minkowski sum of
// the outline and a circle of radius margin approximated by segments sides.
// A zero margin returns the outline's hull.
func Offset(outline antiwarp.Footprint, margin float64, segments int) (antiwarp.Footprint, error) {
	switch {
	case margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0):
		return nil, errors.New("offset margin must be non-negative and finite")
	case segments < 3:
		return nil, errors.New("offset needs at least 3 segments")
	}
	if margin == 0 || len(outline) == 0 {
		return ConvexHull(outline), nil
	}
	circle := Nagon(segments, margin)
	sum := make([]r2.Vec, 0, len(outline)*len(circle))
	for _, p := range outline {
		for _, c := range circle {
			sum = append(sum, r2.Add(p, c))
		}
	}
	return ConvexHull(sum), nil
}

// Nagon returns the vertices of a regular polygon with n sides inscribed in a
// circle of given radius. The first vertex lies on the positive x axis.
func Nagon(n int, radius float64) d2.Set {
	if n < 3 {
		return nil
	}
	v := make(d2.Set, n)
	p := r2.Vec{X: radius}
	for i := range v {
		v[i] = d2.Rotate(p, 2*math.Pi*float64(i)/float64(n))
	}
	return v
}

// Bounds returns the bounding box of a footprint.
func Bounds(fp antiwarp.Footprint) r2.Box {
	if len(fp) == 0 {
		return r2.Box{}
	}
	return r2.Box{Min: d2.Set(fp).Min(), Max: d2.Set(fp).Max()}
}

// Area returns the signed area of fp. Counter-clockwise outlines have
// positive area.
func Area(fp antiwarp.Footprint) float64 {
	var a float64
	for i := range fp {
		a += d2.Cross(fp[i], fp[(i+1)%len(fp)])
	}
	return a / 2
}
