package geom

import "github.com/geomkit/geomkit/core/errors"

// MultiPolygon is a homogeneous ordered collection of Polygons.
type MultiPolygon struct {
	geomBase
	polygons []*Polygon
}

// NewMultiPolygon builds a multi-polygon from the given members.
func NewMultiPolygon(polygons ...*Polygon) (*MultiPolygon, error) {
	for _, p := range polygons {
		if p == nil {
			return nil, errors.NewInvalidGeometry("MultiPolygon", "nil polygon component")
		}
	}
	return &MultiPolygon{polygons: polygons}, nil
}

// Polygons returns the member polygons.
func (m *MultiPolygon) Polygons() []*Polygon { return m.polygons }

func (m *MultiPolygon) GeomType() Type { return TypeMultiPolygon }
func (m *MultiPolygon) Dimension() int { return 2 }

func (m *MultiPolygon) NumGeometries() int { return len(m.polygons) }

// Geometry returns the i-th member.
func (m *MultiPolygon) Geometry(i int) Geometry { return m.polygons[i] }

func (m *MultiPolygon) IsEmpty() bool {
	for _, p := range m.polygons {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

func (m *MultiPolygon) Is3D() bool {
	for _, p := range m.polygons {
		if p.Is3D() {
			return true
		}
	}
	return false
}

func (m *MultiPolygon) IsMeasured() bool {
	for _, p := range m.polygons {
		if p.IsMeasured() {
			return true
		}
	}
	return false
}

func (m *MultiPolygon) SetSRID(srid int) {
	m.setSRIDLocal(srid)
	for _, p := range m.polygons {
		p.SetSRID(srid)
	}
}

func (m *MultiPolygon) BBox() *BBox {
	return mergeBBoxes(m.Components())
}

// AsArray mirrors the members as [][][][]float64.
func (m *MultiPolygon) AsArray() any {
	out := make([][][][]float64, len(m.polygons))
	for i, p := range m.polygons {
		out[i] = p.AsArray().([][][]float64)
	}
	return out
}

func (m *MultiPolygon) Components() []Geometry {
	out := make([]Geometry, len(m.polygons))
	for i, p := range m.polygons {
		out[i] = p
	}
	return out
}

// Area sums the areas of the member polygons.
func (m *MultiPolygon) Area() float64 {
	var sum float64
	for _, p := range m.polygons {
		sum += p.Area()
	}
	return sum
}

func (m *MultiPolygon) Equals(other Geometry) bool {
	o, ok := other.(*MultiPolygon)
	if !ok || len(m.polygons) != len(o.polygons) {
		return false
	}
	for i, p := range m.polygons {
		if !p.Equals(o.polygons[i]) {
			return false
		}
	}
	return true
}

func (m *MultiPolygon) InvertXY() {
	for _, p := range m.polygons {
		p.InvertXY()
	}
}

func (m *MultiPolygon) Flatten() {
	for _, p := range m.polygons {
		p.Flatten()
	}
}
