package antiwarp

import (
	"math"

	"github.com/soypat/antiwarp/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// handleVertices is the number of vertices of the handle volume:
	// 5 quads with 4 corners each. The far end is left open.
	handleVertices = 20
	// sectorVertices is the number of vertices appended per pad sector.
	sectorVertices = 12
	// junctionVertices closes the gap between handle and pad center.
	junctionVertices = 6
)

// Build returns the triangle mesh of the tab described by spec.
// Build is a pure function of spec.
func Build(spec TabSpec) (GeneratedMesh, error) {
	if err := spec.Validate(); err != nil {
		return GeneratedMesh{}, err
	}
	tb, err := newTabBuilder(spec)
	if err != nil {
		return GeneratedMesh{}, err
	}
	tb.handle()
	tb.pad(spec.AngleStep)
	tb.junction()
	return tb.assemble(spec.RotationAngle), nil
}

// tabBuilder accumulates vertices in local authoring space where x points from
// the anchor towards the pad, y is up and z is lateral.
type tabBuilder struct {
	verts []r3.Vec
	// pad radius and handle half width.
	r, s   float64
	length float64
	// bottom and top heights.
	l, sup float64
	// x coordinate and lateral half width of the handle's far end.
	hx, b float64
}

func newTabBuilder(spec TabSpec) (*tabBuilder, error) {
	tb := &tabBuilder{
		r:      spec.PadDiameter / 2,
		s:      spec.HandleWidth / 2,
		length: spec.HandleLength,
		l:      -spec.SupportDepth,
		sup:    -spec.SupportDepth + spec.CapHeight,
	}
	tb.hx, tb.b = tb.length, tb.s
	if spec.DirectShape {
		center := r2.Vec{X: tb.length + tb.r}
		corner := r2.Vec{X: -tb.s, Y: tb.s}
		t, err := SideTangent(center, tb.r, corner, r2.Vec{Y: 1})
		if err != nil {
			return nil, err
		}
		tb.hx, tb.b = t.X, math.Abs(t.Y)
	}
	n := 360 / spec.AngleStep
	tb.verts = make([]r3.Vec, 0, handleVertices+sectorVertices*(n+1)+junctionVertices)
	return tb, nil
}

func (tb *tabBuilder) add(v ...r3.Vec) {
	tb.verts = append(tb.verts, v...)
}

// rim returns the point of the pad boundary at angle theta and height y.
func (tb *tabBuilder) rim(theta, y float64) r3.Vec {
	p := d2.Pol{R: tb.r, Theta: theta}.PolarToCartesian()
	return r3.Vec{X: tb.length + tb.r + p.X, Y: y, Z: p.Y}
}

func (tb *tabBuilder) center(y float64) r3.Vec {
	return r3.Vec{X: tb.length + tb.r, Y: y}
}

func (tb *tabBuilder) handle() {
	s, l, sup := tb.s, tb.l, tb.sup
	hx, b := tb.hx, tb.b
	tb.add(
		// Lateral side +z.
		r3.Vec{X: -s, Y: l, Z: s}, r3.Vec{X: -s, Y: sup, Z: s}, r3.Vec{X: hx, Y: sup, Z: b}, r3.Vec{X: hx, Y: l, Z: b},
		// Lateral side -z.
		r3.Vec{X: -s, Y: sup, Z: -s}, r3.Vec{X: -s, Y: l, Z: -s}, r3.Vec{X: hx, Y: l, Z: -b}, r3.Vec{X: hx, Y: sup, Z: -b},
		// Bottom.
		r3.Vec{X: hx, Y: l, Z: -b}, r3.Vec{X: -s, Y: l, Z: -s}, r3.Vec{X: -s, Y: l, Z: s}, r3.Vec{X: hx, Y: l, Z: b},
		// Top.
		r3.Vec{X: -s, Y: sup, Z: -s}, r3.Vec{X: hx, Y: sup, Z: -b}, r3.Vec{X: hx, Y: sup, Z: b}, r3.Vec{X: -s, Y: sup, Z: s},
		// Near end facing the model.
		r3.Vec{X: -s, Y: l, Z: s}, r3.Vec{X: -s, Y: l, Z: -s}, r3.Vec{X: -s, Y: sup, Z: -s}, r3.Vec{X: -s, Y: sup, Z: s},
	)
}

// pad sweeps the pad boundary in angleStep degree sectors. Sectors that
// overlap the handle are skipped; the first of them is replaced by two seam
// sectors snapping the pad edge to the handle corners.
func (tb *tabBuilder) pad(angleStep int) {
	r, l, sup, b := tb.r, tb.l, tb.sup, tb.b
	step := float64(angleStep) * pi / 180
	n := 360 / angleStep
	ctop, cbot := tb.center(sup), tb.center(l)
	seamed := false
	for i := 0; i < n; i++ {
		t0 := float64(i) * step
		t1 := float64(i+1) * step
		if r*math.Cos(t1) >= 0 || (math.Abs(r*math.Sin(t1)) > b && math.Abs(r*math.Sin(t0)) > b) {
			top0, top1 := tb.rim(t0, sup), tb.rim(t1, sup)
			bot0, bot1 := tb.rim(t0, l), tb.rim(t1, l)
			tb.add(ctop, top1, top0)
			tb.add(top0, top1, bot1)
			tb.add(bot1, bot0, top0)
			tb.add(cbot, bot0, bot1)
			continue
		}
		if seamed {
			continue
		}
		seamed = true
		remain1 := t0
		remain2 := tau - remain1
		// Seam on the +z side of the handle.
		p1top, p1bot := tb.rim(remain1, sup), tb.rim(remain1, l)
		h1top, h1bot := r3.Vec{X: tb.hx, Y: sup, Z: b}, r3.Vec{X: tb.hx, Y: l, Z: b}
		tb.add(ctop, h1top, p1top)
		tb.add(p1top, h1top, h1bot)
		tb.add(h1bot, p1bot, p1top)
		tb.add(cbot, p1bot, h1bot)
		// Seam on the -z side of the handle.
		p2top, p2bot := tb.rim(remain2, sup), tb.rim(remain2, l)
		h2top, h2bot := r3.Vec{X: tb.hx, Y: sup, Z: -b}, r3.Vec{X: tb.hx, Y: l, Z: -b}
		tb.add(ctop, p2top, h2top)
		tb.add(h2top, p2top, p2bot)
		tb.add(p2bot, h2bot, h2top)
		tb.add(cbot, h2bot, p2bot)
	}
}

// junction closes the gap between the handle's far edge and the pad center.
func (tb *tabBuilder) junction() {
	hx, b := tb.hx, tb.b
	tb.add(
		r3.Vec{X: hx, Y: tb.sup, Z: b}, tb.center(tb.sup), r3.Vec{X: hx, Y: tb.sup, Z: -b},
		r3.Vec{X: hx, Y: tb.l, Z: -b}, tb.center(tb.l), r3.Vec{X: hx, Y: tb.l, Z: b},
	)
}

// assemble rotates the local vertices, maps them to world space and indexes
// them. Index triplets are written in local winding and then mirrored since
// LocalToWorld reverses orientation.
func (tb *tabBuilder) assemble(angle float64) GeneratedMesh {
	verts := make([]r3.Vec, len(tb.verts))
	for i, v := range tb.verts {
		verts[i] = LocalToWorld(RotateLocal(v, angle))
	}
	indices := make([][3]int, 0, handleVertices/2+(len(verts)-handleVertices)/3)
	for i := 0; i < handleVertices; i += 4 {
		indices = append(indices, mirror([3]int{i, i + 2, i + 1}), mirror([3]int{i, i + 3, i + 2}))
	}
	for i := handleVertices; i+2 < len(verts); i += 3 {
		indices = append(indices, mirror([3]int{i, i + 1, i + 2}))
	}
	return GeneratedMesh{
		Vertices: verts,
		Indices:  indices,
		Normals:  vertexNormals(verts, indices),
	}
}

func mirror(t [3]int) [3]int {
	return [3]int{t[0], t[2], t[1]}
}
