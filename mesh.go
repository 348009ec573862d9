package antiwarp

import (
	"fmt"

	"github.com/soypat/antiwarp/internal/d2"
	"github.com/soypat/antiwarp/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// GeneratedMesh is an indexed triangle mesh in world space.
type GeneratedMesh struct {
	// Vertices in insertion order. A vertex's index is its position in the slice.
	Vertices []r3.Vec
	// Indices lists triangles as triplets of vertex indices with outward winding.
	Indices [][3]int
	// Normals holds one unit normal per vertex.
	Normals []r3.Vec
}

// Triangles returns the mesh triangles as vertex triplets.
func (m GeneratedMesh) Triangles() []r3.Triangle {
	tris := make([]r3.Triangle, len(m.Indices))
	for i, idx := range m.Indices {
		tris[i] = r3.Triangle{m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]}
	}
	return tris
}

// Bounds returns the bounding box of the mesh vertices.
func (m GeneratedMesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := d3.Empty()
	for _, v := range m.Vertices {
		b = b.Include(v)
	}
	return r3.Box(b)
}

// Validate checks that all indices reference existing vertices and that
// there is a normal per vertex.
func (m GeneratedMesh) Validate() error {
	nv := len(m.Vertices)
	for i, idx := range m.Indices {
		for _, v := range idx {
			if v < 0 || v >= nv {
				return fmt.Errorf("triangle %d references vertex %d out of %d", i, v, nv)
			}
		}
	}
	if len(m.Normals) != nv {
		return fmt.Errorf("got %d normals for %d vertices", len(m.Normals), nv)
	}
	return nil
}

// RotateLocal rotates a vertex in tab authoring space (x forward, y up,
// z lateral) about the vertical axis by angle radians.
func RotateLocal(v r3.Vec, angle float64) r3.Vec {
	xz := d2.Rotate(r2.Vec{X: v.X, Y: v.Z}, angle)
	return r3.Vec{X: xz.X, Y: v.Y, Z: xz.Y}
}

// LocalToWorld maps tab authoring space (x forward, y up, z lateral) to
// world space (z up). The mapping swaps two axes and therefore reverses
// triangle orientation.
func LocalToWorld(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Z, Z: v.Y}
}

// vertexNormals averages the area weighted normals of the faces adjacent to
// each vertex. Vertices whose accumulated normal vanishes get the up vector.
func vertexNormals(verts []r3.Vec, indices [][3]int) []r3.Vec {
	normals := make([]r3.Vec, len(verts))
	for _, t := range indices {
		n := d3.FaceNormal(verts[t[0]], verts[t[1]], verts[t[2]])
		for _, i := range t {
			normals[i] = r3.Add(normals[i], n)
		}
	}
	for i := range normals {
		normals[i] = unitOrUp(normals[i])
	}
	return normals
}

var up = r3.Vec{Z: 1}

func unitOrUp(n r3.Vec) r3.Vec {
	l := r3.Norm(n)
	if l < epsilon {
		return up
	}
	return r3.Scale(1/l, n)
}
