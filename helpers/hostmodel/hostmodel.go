// Package hostmodel builds simple printable bodies to host tabs in demos and
// tests. Bodies are meshed from sdfx signed distance functions and rest on
// the build plate with their footprint centered on the origin.
package hostmodel

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the marching cubes resolution along a body's longest axis.
const DefaultCells = 64

// Shapes lists the names accepted by Shape.
var Shapes = []string{"box", "cylinder"}

// Box returns a box of given size resting on the build plate.
func Box(x, y, z float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box body: %w", err)
	}
	return onPlate(s, z), nil
}

// Cylinder returns an upright cylinder resting on the build plate.
func Cylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder body: %w", err)
	}
	return onPlate(s, height), nil
}

// Shape returns a named demo body sized to fit a cube of side size.
func Shape(name string, size float64) (sdf.SDF3, error) {
	switch name {
	case "box":
		return Box(size, size/2, size/4)
	case "cylinder":
		return Cylinder(size/4, size/2)
	}
	return nil, fmt.Errorf("unknown shape %q, want one of %v", name, Shapes)
}

// sdfx centers primitives on the origin.
func onPlate(s sdf.SDF3, height float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))
}

// Mesh tessellates s with a uniform marching cubes grid of cells along its
// longest axis.
func Mesh(s sdf.SDF3, cells int) []r3.Triangle {
	if cells <= 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	model := make([]r3.Triangle, 0, len(tris))
	for _, tri := range tris {
		var t r3.Triangle
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		}
		model = append(model, t)
	}
	return model
}
