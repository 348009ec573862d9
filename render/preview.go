// Package render writes tab and scene meshes to binary STL and renders
// shaded PNG previews of them.
package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View places the camera for a preview. Positions are in the bi-unit cube the
// model is fitted into before drawing.
type View struct {
	// Eye is the camera position.
	Eye r3.Vec
	// Center is the point looked at.
	Center r3.Vec
	// Up is the camera's up direction.
	Up        r3.Vec
	Near, Far float64
}

// DefaultView looks down at the build plate from the front right.
var DefaultView = View{
	Eye:  r3.Vec{X: 2.5, Y: -3.5, Z: 3},
	Up:   r3.Vec{Z: 1},
	Near: 1,
	Far:  10,
}

const (
	fovy        = 30 // vertical field of view in degrees
	supersample = 2
)

var (
	lightDir    = fauxgl.V(-0.75, 1, 0.25).Normalize()
	objectColor = fauxgl.HexColor("#468966")
	background  = fauxgl.HexColor("#FFF8E3")
)

// Preview renders model with a phong shader into a width by height image.
func Preview(model []r3.Triangle, width, height int, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))) == 0 {
			continue // No normal to shade with.
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(fvec(t[0]), fvec(t[1]), fvec(t[2])))
	}
	if len(tris) == 0 {
		return nil, errors.New("all triangles are degenerate")
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()

	context := fauxgl.NewContext(width*supersample, height*supersample)
	context.ClearColorBufferWith(background)
	eye := fvec(view.Eye)
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, fvec(view.Center), fvec(view.Up)).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, lightDir, eye)
	shader.ObjectColor = objectColor
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	return resize.Resize(uint(width), uint(height), context.Image(), resize.Bilinear), nil
}

// SavePNG renders model with Preview and writes the image to path.
func SavePNG(path string, model []r3.Triangle, width, height int, view View) error {
	img, err := Preview(model, width, height, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fvec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
