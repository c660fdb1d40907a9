package geom

import "github.com/geomkit/geomkit/core/errors"

// MultiPoint is a homogeneous ordered collection of Points. Empty member
// points are permitted by construction (WKT can express them); the build
// algebra applies its own stricter policy.
type MultiPoint struct {
	geomBase
	points []*Point
}

// NewMultiPoint builds a multi-point from the given members.
func NewMultiPoint(points ...*Point) (*MultiPoint, error) {
	for _, p := range points {
		if p == nil {
			return nil, errors.NewInvalidGeometry("MultiPoint", "nil point component")
		}
	}
	return &MultiPoint{points: points}, nil
}

// Points returns the member points.
func (m *MultiPoint) Points() []*Point { return m.points }

func (m *MultiPoint) GeomType() Type { return TypeMultiPoint }
func (m *MultiPoint) Dimension() int { return 0 }

func (m *MultiPoint) NumGeometries() int { return len(m.points) }

// Geometry returns the i-th member.
func (m *MultiPoint) Geometry(i int) Geometry { return m.points[i] }

func (m *MultiPoint) IsEmpty() bool {
	for _, p := range m.points {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

func (m *MultiPoint) Is3D() bool {
	for _, p := range m.points {
		if p.Is3D() {
			return true
		}
	}
	return false
}

func (m *MultiPoint) IsMeasured() bool {
	for _, p := range m.points {
		if p.IsMeasured() {
			return true
		}
	}
	return false
}

func (m *MultiPoint) SetSRID(srid int) {
	m.setSRIDLocal(srid)
	for _, p := range m.points {
		p.SetSRID(srid)
	}
}

func (m *MultiPoint) BBox() *BBox {
	return mergeBBoxes(m.Components())
}

// AsArray mirrors the members as [][]float64.
func (m *MultiPoint) AsArray() any {
	out := make([][]float64, len(m.points))
	for i, p := range m.points {
		out[i] = p.AsArray().([]float64)
	}
	return out
}

func (m *MultiPoint) Components() []Geometry {
	out := make([]Geometry, len(m.points))
	for i, p := range m.points {
		out[i] = p
	}
	return out
}

func (m *MultiPoint) Equals(other Geometry) bool {
	o, ok := other.(*MultiPoint)
	if !ok || len(m.points) != len(o.points) {
		return false
	}
	for i, p := range m.points {
		if !p.Equals(o.points[i]) {
			return false
		}
	}
	return true
}

func (m *MultiPoint) InvertXY() {
	for _, p := range m.points {
		p.InvertXY()
	}
}

func (m *MultiPoint) Flatten() {
	for _, p := range m.points {
		p.Flatten()
	}
}
