package antiwarp

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/antiwarp/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func square(side float64) Footprint {
	return Footprint{{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}}
}

// forward returns the plate direction of a tab's handle for a rotation angle.
func forward(angle float64) r2.Vec {
	v := LocalToWorld(RotateLocal(r3.Vec{X: 1}, angle))
	return r2.Vec{X: v.X, Y: v.Y}
}

func TestResolveAngleSquare(t *testing.T) {
	// Corners (0,0) and (10,0) tie at a rounded distance of 7. The run's
	// midpoint truncates to the first corner, which the tab then points at
	// diagonally rather than straight at the edge between them.
	got, err := ResolveAngle(square(10), r3.Vec{X: 5, Y: -5, Z: 3})
	if err != nil {
		t.Fatal(err)
	}
	if want := 3 * math.Pi / 4; math.Abs(got-want) > 1e-9 {
		t.Errorf("got angle %g, want %g", got, want)
	}
}

func TestResolveAngleDenseSquare(t *testing.T) {
	var fp Footprint
	for _, edge := range [][2]r2.Vec{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 10, Y: 0}, {X: 0, Y: 1}},
		{{X: 10, Y: 10}, {X: -1, Y: 0}},
		{{X: 0, Y: 10}, {X: 0, Y: -1}},
	} {
		for i := 0; i < 10; i++ {
			fp = append(fp, r2.Add(edge[0], r2.Scale(float64(i), edge[1])))
		}
	}
	got, err := ResolveAngle(fp, r3.Vec{X: 5, Y: -5})
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Pi / 2; math.Abs(got-want) > 1e-9 {
		t.Errorf("got angle %g, want %g", got, want)
	}
	if f := forward(got); !d2.EqualWithin(f, r2.Vec{Y: 1}, 1e-9) {
		t.Errorf("tab must point into the square, got direction %v", f)
	}
}

func TestResolveAngleDirection(t *testing.T) {
	q := r3.Vec{Z: 1}
	for _, p := range []r2.Vec{
		{X: 3, Y: 4}, {X: -3, Y: 4}, {X: -3, Y: -4}, {X: 3, Y: -4},
		{X: 5}, {X: -5}, {Y: 5}, {Y: -5},
	} {
		angle, err := ResolveAngle(Footprint{p, r2.Scale(10, p)}, q)
		if err != nil {
			t.Fatal(err)
		}
		want := r2.Unit(p)
		if got := forward(angle); !d2.EqualWithin(got, want, 1e-9) {
			t.Errorf("nearest %v: tab points along %v, want %v", p, got, want)
		}
	}
}

func TestResolveAngleScaleInvariant(t *testing.T) {
	q := r3.Vec{X: 1, Y: 1}
	fp := Footprint{{X: 4, Y: 5}, {X: -9, Y: 3}, {X: 1, Y: -19}}
	base, err := ResolveAngle(fp, q)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []float64{0.5, 2, 3.7, 10} {
		scaled := make(Footprint, len(fp))
		for i, p := range fp {
			qp := r2.Vec{X: q.X, Y: q.Y}
			scaled[i] = r2.Add(qp, r2.Scale(k, r2.Sub(p, qp)))
		}
		got, err := ResolveAngle(scaled, q)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-base) > 1e-9 {
			t.Errorf("scale %g: got angle %g, want %g", k, got, base)
		}
	}
}

func TestResolveAngleRunBreak(t *testing.T) {
	// The two points at distance 5 are not adjacent so the later one starts
	// a new run and is selected.
	fp := Footprint{{X: 5}, {X: 20}, {X: -5}}
	angle, err := ResolveAngle(fp, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	if got := forward(angle); !d2.EqualWithin(got, r2.Vec{X: -1}, 1e-9) {
		t.Errorf("got direction %v, want towards (-5,0)", got)
	}
	// Three adjacent points tie; the middle one is selected.
	fp = Footprint{{X: 20}, {X: 5, Y: -1}, {X: 5}, {X: 5, Y: 1}, {X: -20}}
	angle, err = ResolveAngle(fp, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	if got := forward(angle); !d2.EqualWithin(got, r2.Vec{X: 1}, 1e-9) {
		t.Errorf("got direction %v, want towards (5,0)", got)
	}
}

func TestResolveAngleNoFootprint(t *testing.T) {
	for _, fp := range []Footprint{
		nil,
		{},
		{{X: 1, Y: 1}, {X: 1.2, Y: 1}},
	} {
		angle, err := ResolveAngle(fp, r3.Vec{X: 1, Y: 1})
		if !errors.Is(err, ErrNoFootprint) {
			t.Errorf("footprint %v: want no footprint error, got %v", fp, err)
		}
		if angle != 0 {
			t.Errorf("footprint %v: want zero angle fallback, got %g", fp, angle)
		}
	}
}
