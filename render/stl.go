package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateTol is the vertex distance below which a triangle is not written.
const degenerateTol = 1e-7

// CreateSTL writes model to a binary STL file at path.
func CreateSTL(path string, model []r3.Triangle) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = WriteSTL(fp, Float32(model))
	if err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fp.Close()
}

// ReadSTLFile reads a binary STL file. Normal mismatches are tolerated.
func ReadSTLFile(path string) ([]r3.Triangle, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	model, err := ReadSTL(fp)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Float64(model), nil
}

const (
	headerSize   = 84
	triangleSize = 50
)

// WriteSTL writes model triangles to a writer in binary STL file format.
// Degenerate triangles are not written.
func WriteSTL(w io.Writer, model []ms3.Triangle) (int, error) {
	model = dropDegenerate(model)
	if len(model) == 0 {
		return 0, errors.New("empty triangle slice")
	}
	if int64(len(model)) > math.MaxUint32 {
		return 0, errors.New("amount of triangles in model exceeds STL design limits")
	}
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[80:], uint32(len(model)))
	n, err := w.Write(buf[:])
	if err != nil {
		return n, err
	}
	for _, t := range model {
		encodeTriangle(buf[:triangleSize], t)
		ngot, err := w.Write(buf[:triangleSize])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func dropDegenerate(model []ms3.Triangle) []ms3.Triangle {
	for i := range model {
		if model[i].IsDegenerate(degenerateTol) {
			kept := make([]ms3.Triangle, 0, len(model))
			kept = append(kept, model[:i]...)
			for _, t := range model[i+1:] {
				if !t.IsDegenerate(degenerateTol) {
					kept = append(kept, t)
				}
			}
			return kept
		}
	}
	return model
}

// ErrNormalMismatch is returned by ReadSTL alongside the read triangles when
// stored normals disagree with the vertex winding. It may be ignored if the
// model is otherwise fine.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

// ReadSTL reads triangles from a binary STL stream. Triangles whose stored
// normal disagrees with their vertices are kept and counted in an error
// wrapping ErrNormalMismatch.
func ReadSTL(r io.Reader) ([]ms3.Triangle, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := binary.LittleEndian.Uint32(buf[80:])
	if count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	model := make([]ms3.Triangle, 0, min(count, 1<<20))
	mismatches := 0
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf[:triangleSize]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, count, err)
		}
		normal, t := decodeTriangle(buf[:triangleSize])
		ok, err := checkTriangle(normal, t)
		if err != nil {
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		if !ok {
			mismatches++
		}
		model = append(model, t)
	}
	if mismatches > 0 {
		return model, fmt.Errorf("%d of %d triangles: %w", mismatches, count, ErrNormalMismatch)
	}
	return model, nil
}

// Float32 converts triangles to single precision.
func Float32(model []r3.Triangle) []ms3.Triangle {
	out := make([]ms3.Triangle, len(model))
	for i, t := range model {
		for j, v := range t {
			out[i][j] = ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}
	}
	return out
}

// Float64 converts triangles to double precision.
func Float64(model []ms3.Triangle) []r3.Triangle {
	out := make([]r3.Triangle, len(model))
	for i, t := range model {
		for j, v := range t {
			out[i][j] = r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
		}
	}
	return out
}

// encodeTriangle writes the unit normal and vertices of t followed by a
// zero attribute count.
func encodeTriangle(b []byte, t ms3.Triangle) {
	putVec(b, ms3.Unit(t.Normal()))
	for i, v := range t {
		putVec(b[12*(i+1):], v)
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func decodeTriangle(b []byte) (normal ms3.Vec, t ms3.Triangle) {
	normal = getVec(b)
	for i := range t {
		t[i] = getVec(b[12*(i+1):])
	}
	return normal, t
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b, math32.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math32.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math32.Float32bits(v.Z))
}

func getVec(b []byte) ms3.Vec {
	return ms3.Vec{
		X: math32.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: math32.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math32.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func finite(v ms3.Vec) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// checkTriangle rejects non-finite or degenerate triangles and reports
// whether the stored normal agrees, up to sign, with the vertex winding.
func checkTriangle(normal ms3.Vec, t ms3.Triangle) (bool, error) {
	const (
		degenerateRead = 1e-12
		normTol        = 5e-2
	)
	if !finite(normal) || !finite(t[0]) || !finite(t[1]) || !finite(t[2]) {
		return false, errors.New("inf/NaN STL triangle")
	}
	if t.IsDegenerate(degenerateRead) {
		return false, errors.New("triangle is degenerate")
	}
	// Scaled up so small triangles keep float32 precision in the cross product.
	a, b, c := ms3.Scale(10, t[0]), ms3.Scale(10, t[1]), ms3.Scale(10, t[2])
	calc := ms3.Unit(ms3.Cross(ms3.Sub(b, a), ms3.Sub(c, a)))
	return ms3.EqualElem(calc, normal, normTol) || ms3.EqualElem(ms3.Scale(-1, calc), normal, normTol), nil
}
