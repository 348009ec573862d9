package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	_ kdtree.Interface  = kdPads{}
	_ kdtree.Comparable = kdPad{}
)

// kdPad is a placed tab keyed by its pad center on the build plate.
type kdPad struct {
	center r2.Vec
	index  int
}

type kdPads []kdPad

func (k kdPads) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdPads) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdPads) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), pads: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdPads) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdPad) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdPad), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdPad) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdPad) Distance(b kdtree.Comparable) float64 {
	return r2.Norm2(r2.Sub(a.center, b.(kdPad).center))
}

func kdComp(a, b kdPad, dim int) float64 {
	if dim == 0 {
		return a.center.X - b.center.X
	}
	return a.center.Y - b.center.Y
}

type kdPlane struct {
	dim  int
	pads kdPads
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.pads[i], p.pads[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.pads[i], p.pads[j] = p.pads[j], p.pads[i]
}
func (p kdPlane) Len() int {
	return len(p.pads)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.pads = p.pads[start:end]
	return p
}

// nearestPad returns the index of the pad closest to q and its distance.
// It returns -1 if pads is empty.
func nearestPad(pads kdPads, q r2.Vec) (int, float64) {
	if len(pads) == 0 {
		return -1, math.Inf(1)
	}
	tree := kdtree.New(pads, false)
	got, d2 := tree.Nearest(kdPad{center: q})
	return got.(kdPad).index, math.Sqrt(d2)
}
