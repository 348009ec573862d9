package antiwarp

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlacementResult is a tab built for a PlacementRequest.
type PlacementResult struct {
	// Spec is the fully resolved spec the mesh was built from.
	Spec TabSpec
	// Mesh is expressed relative to the request anchor.
	Mesh GeneratedMesh
	// Transform moves Mesh to the request anchor in world space.
	Transform mgl64.Mat4
	// AngleErr is a non-fatal NoFootprint warning set when orientation
	// fell back to an unrotated tab.
	AngleErr error
}

// Place orients and builds a tab for req. fp is the adhesion boundary of the
// request's object and base carries the user's tab parameters. base's
// SupportDepth and RotationAngle are overwritten.
func Place(req PlacementRequest, fp Footprint, base TabSpec) (PlacementResult, error) {
	angle, angleErr := ResolveAngle(fp, req.Anchor)
	if angleErr != nil && !errors.Is(angleErr, ErrNoFootprint) {
		return PlacementResult{}, angleErr
	}
	spec := base
	spec.SupportDepth = req.Anchor.Z
	spec.RotationAngle = angle
	mesh, err := Build(spec)
	if err != nil {
		return PlacementResult{}, fmt.Errorf("tab for %q at %v: %w", req.Object, req.Anchor, err)
	}
	return PlacementResult{
		Spec:      spec,
		Mesh:      mesh,
		Transform: mgl64.Translate3D(req.Anchor.X, req.Anchor.Y, req.Anchor.Z),
		AngleErr:  angleErr,
	}, nil
}

// Anchor returns the world position of the tab's local origin.
func (p PlacementResult) Anchor() r3.Vec {
	t := p.Transform.Col(3)
	return r3.Vec{X: t[0], Y: t[1], Z: t[2]}
}

// PadCenter returns the world position of the pad's center on the build plate.
func (p PlacementResult) PadCenter() r3.Vec {
	reach := p.Spec.HandleLength + p.Spec.PadDiameter/2
	local := LocalToWorld(RotateLocal(r3.Vec{X: reach, Y: -p.Spec.SupportDepth}, p.Spec.RotationAngle))
	return p.apply(local)
}

// WorldTriangles returns the mesh triangles moved to world space.
func (p PlacementResult) WorldTriangles() []r3.Triangle {
	tris := p.Mesh.Triangles()
	for i := range tris {
		for j := range tris[i] {
			tris[i][j] = p.apply(tris[i][j])
		}
	}
	return tris
}

func (p PlacementResult) apply(v r3.Vec) r3.Vec {
	w := mgl64.TransformCoordinate(mgl64.Vec3{v.X, v.Y, v.Z}, p.Transform)
	return r3.Vec{X: w[0], Y: w[1], Z: w[2]}
}
