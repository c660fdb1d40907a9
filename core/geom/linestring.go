package geom

import "github.com/geomkit/geomkit/core/errors"

// LineString is an ordered sequence of owned points. It is valid with zero
// points (empty) or with at least two; a single-point line violates the
// curve invariant and fails construction, as does an empty member point.
type LineString struct {
	geomBase
	points []*Point
}

// NewLineString validates and builds a line from the given points.
func NewLineString(points ...*Point) (*LineString, error) {
	if len(points) == 1 {
		return nil, errors.NewInvalidGeometry("LineString", "cannot construct from a single point")
	}
	for i, p := range points {
		if p == nil {
			return nil, errors.NewInvalidGeometry("LineString", "nil point component")
		}
		if p.IsEmpty() {
			return nil, errors.Wrapf(
				errors.NewInvalidGeometry("LineString", "empty point component"),
				"point %d", i)
		}
	}
	return &LineString{points: points}, nil
}

// NewRing validates the points as a closed ring: empty, or first equal to
// last with at least four points.
func NewRing(points ...*Point) (*LineString, error) {
	ls, err := NewLineString(points...)
	if err != nil {
		return nil, err
	}
	if !ls.IsRing() {
		return nil, errors.NewInvalidGeometry("LineString", "not a closed ring of at least four points")
	}
	return ls, nil
}

// Points returns the owned point sequence in insertion order.
func (l *LineString) Points() []*Point { return l.points }

// NumPoints returns the point count.
func (l *LineString) NumPoints() int { return len(l.points) }

func (l *LineString) GeomType() Type { return TypeLineString }
func (l *LineString) Dimension() int { return 1 }
func (l *LineString) IsEmpty() bool  { return len(l.points) == 0 }

func (l *LineString) Is3D() bool {
	for _, p := range l.points {
		if p.Is3D() {
			return true
		}
	}
	return false
}

func (l *LineString) IsMeasured() bool {
	for _, p := range l.points {
		if p.IsMeasured() {
			return true
		}
	}
	return false
}

func (l *LineString) SetSRID(srid int) {
	l.setSRIDLocal(srid)
	for _, p := range l.points {
		p.SetSRID(srid)
	}
}

func (l *LineString) BBox() *BBox {
	if l.IsEmpty() {
		return nil
	}
	box := l.points[0].BBox()
	out := *box
	for _, p := range l.points[1:] {
		out.ExtendXY(p.x, p.y)
	}
	return &out
}

// AsArray mirrors the point sequence as [][]float64.
func (l *LineString) AsArray() any {
	out := make([][]float64, len(l.points))
	for i, p := range l.points {
		out[i] = p.AsArray().([]float64)
	}
	return out
}

// Components returns the member points. For collection explosion purposes a
// LineString is atomic; the algebra never walks into this slice.
func (l *LineString) Components() []Geometry {
	out := make([]Geometry, len(l.points))
	for i, p := range l.points {
		out[i] = p
	}
	return out
}

// IsClosed reports whether the first and last points are coordinate-equal.
// The empty line is not closed.
func (l *LineString) IsClosed() bool {
	if len(l.points) < 2 {
		return false
	}
	first, last := l.points[0], l.points[len(l.points)-1]
	return first.x == last.x && first.y == last.y
}

// IsRing reports whether the line satisfies the ring invariant: empty, or
// closed with at least four points.
func (l *LineString) IsRing() bool {
	if l.IsEmpty() {
		return true
	}
	return len(l.points) >= 4 && l.IsClosed()
}

func (l *LineString) Equals(other Geometry) bool {
	o, ok := other.(*LineString)
	if !ok || len(l.points) != len(o.points) {
		return false
	}
	for i, p := range l.points {
		if !p.Equals(o.points[i]) {
			return false
		}
	}
	return true
}

func (l *LineString) InvertXY() {
	for _, p := range l.points {
		p.InvertXY()
	}
}

func (l *LineString) Flatten() {
	for _, p := range l.points {
		p.Flatten()
	}
}

// Clone returns a deep copy of the line.
func (l *LineString) Clone() *LineString {
	points := make([]*Point, len(l.points))
	for i, p := range l.points {
		points[i] = p.Clone()
	}
	c := &LineString{points: points}
	c.srid = l.srid
	c.data = l.data
	return c
}
