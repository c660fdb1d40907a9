package geom

import "github.com/geomkit/geomkit/core/errors"

// MultiLineString is a homogeneous ordered collection of LineStrings.
type MultiLineString struct {
	geomBase
	lines []*LineString
}

// NewMultiLineString builds a multi-linestring from the given members.
func NewMultiLineString(lines ...*LineString) (*MultiLineString, error) {
	for _, l := range lines {
		if l == nil {
			return nil, errors.NewInvalidGeometry("MultiLineString", "nil linestring component")
		}
	}
	return &MultiLineString{lines: lines}, nil
}

// LineStrings returns the member lines.
func (m *MultiLineString) LineStrings() []*LineString { return m.lines }

func (m *MultiLineString) GeomType() Type { return TypeMultiLineString }
func (m *MultiLineString) Dimension() int { return 1 }

func (m *MultiLineString) NumGeometries() int { return len(m.lines) }

// Geometry returns the i-th member.
func (m *MultiLineString) Geometry(i int) Geometry { return m.lines[i] }

func (m *MultiLineString) IsEmpty() bool {
	for _, l := range m.lines {
		if !l.IsEmpty() {
			return false
		}
	}
	return true
}

func (m *MultiLineString) Is3D() bool {
	for _, l := range m.lines {
		if l.Is3D() {
			return true
		}
	}
	return false
}

func (m *MultiLineString) IsMeasured() bool {
	for _, l := range m.lines {
		if l.IsMeasured() {
			return true
		}
	}
	return false
}

func (m *MultiLineString) SetSRID(srid int) {
	m.setSRIDLocal(srid)
	for _, l := range m.lines {
		l.SetSRID(srid)
	}
}

func (m *MultiLineString) BBox() *BBox {
	return mergeBBoxes(m.Components())
}

// AsArray mirrors the members as [][][]float64.
func (m *MultiLineString) AsArray() any {
	out := make([][][]float64, len(m.lines))
	for i, l := range m.lines {
		out[i] = l.AsArray().([][]float64)
	}
	return out
}

func (m *MultiLineString) Components() []Geometry {
	out := make([]Geometry, len(m.lines))
	for i, l := range m.lines {
		out[i] = l
	}
	return out
}

// IsClosed reports whether every member line is closed.
func (m *MultiLineString) IsClosed() bool {
	for _, l := range m.lines {
		if !l.IsClosed() {
			return false
		}
	}
	return true
}

func (m *MultiLineString) Equals(other Geometry) bool {
	o, ok := other.(*MultiLineString)
	if !ok || len(m.lines) != len(o.lines) {
		return false
	}
	for i, l := range m.lines {
		if !l.Equals(o.lines[i]) {
			return false
		}
	}
	return true
}

func (m *MultiLineString) InvertXY() {
	for _, l := range m.lines {
		l.InvertXY()
	}
}

func (m *MultiLineString) Flatten() {
	for _, l := range m.lines {
		l.Flatten()
	}
}
