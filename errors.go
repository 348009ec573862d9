package antiwarp

import (
	"fmt"
	"runtime"
)

// ErrorKind classifies a GeometryError.
type ErrorKind int

const (
	// InvalidSpec is returned for non-positive pad diameters and malformed
	// numeric input at the configuration boundary.
	InvalidSpec ErrorKind = iota + 1
	// PointInsideCircle is returned when a tangent is requested from a point
	// that lies inside the circle.
	PointInsideCircle
	// NoFootprint is returned when a target object has no computable boundary.
	// It is a warning: callers proceed with an unrotated tab.
	NoFootprint
	// DegenerateGeometry flags zero-length normals. The builder substitutes
	// an up vector so this kind never leaves the package from Build.
	DegenerateGeometry
)

var kindNames = [...]string{
	InvalidSpec:        "invalid spec",
	PointInsideCircle:  "point inside circle",
	NoFootprint:        "no footprint",
	DegenerateGeometry: "degenerate geometry",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// GeometryError is the error type returned by the tab engine.
type GeometryError struct {
	Kind ErrorKind
	Msg  string
}

// Sentinels for use with errors.Is.
var (
	ErrInvalidSpec       = &GeometryError{Kind: InvalidSpec}
	ErrPointInsideCircle = &GeometryError{Kind: PointInsideCircle}
	ErrNoFootprint       = &GeometryError{Kind: NoFootprint}
)

func (e *GeometryError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is a GeometryError of the same kind.
func (e *GeometryError) Is(target error) bool {
	t, ok := target.(*GeometryError)
	return ok && t.Kind == e.Kind
}

// ErrMsg returns a GeometryError whose message is prefixed with the calling
// function name and line number.
func ErrMsg(kind ErrorKind, msg string) error {
	pc, _, line, ok := runtime.Caller(1)
	if !ok {
		return &GeometryError{Kind: kind, Msg: fmt.Sprintf("?: %s", msg)}
	}
	fn := runtime.FuncForPC(pc)
	return &GeometryError{Kind: kind, Msg: fmt.Sprintf("%s line %d: %s", fn.Name(), line, msg)}
}

func geomErr(kind ErrorKind, format string, args ...interface{}) error {
	return &GeometryError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
