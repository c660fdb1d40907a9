package geom

import (
	"fmt"

	"github.com/geomkit/geomkit/core/errors"
)

// GeometryCollection is a heterogeneous ordered collection of geometries.
// Members may themselves be multi geometries or nested collections.
type GeometryCollection struct {
	geomBase
	geoms []Geometry
}

// NewGeometryCollection builds a collection from the given members.
func NewGeometryCollection(geoms ...Geometry) (*GeometryCollection, error) {
	for _, g := range geoms {
		if g == nil {
			return nil, errors.NewInvalidGeometry("GeometryCollection", "nil component")
		}
	}
	return &GeometryCollection{geoms: geoms}, nil
}

// NewMulti builds the natural multi container for the given atomic type:
// TypePoint yields a MultiPoint, TypeLineString a MultiLineString and
// TypePolygon a MultiPolygon. Every component must be of exactly that
// atomic type.
func NewMulti(t Type, comps []Geometry) (Geometry, error) {
	multi := MultiTypeFor(t)
	if multi == NoType {
		return nil, errors.NewInvalidGeometry(t.String(), "no multi container for this type")
	}
	for i, c := range comps {
		if c == nil {
			return nil, errors.NewInvalidGeometry(multi.String(), "nil component")
		}
		if c.GeomType() != t {
			return nil, errors.NewInvalidGeometry(multi.String(),
				fmt.Sprintf("component %d is a %s, not a %s", i, c.GeomType(), t))
		}
	}
	switch t {
	case TypePoint:
		points := make([]*Point, len(comps))
		for i, c := range comps {
			points[i] = c.(*Point)
		}
		return NewMultiPoint(points...)
	case TypeLineString:
		lines := make([]*LineString, len(comps))
		for i, c := range comps {
			lines[i] = c.(*LineString)
		}
		return NewMultiLineString(lines...)
	default:
		polygons := make([]*Polygon, len(comps))
		for i, c := range comps {
			polygons[i] = c.(*Polygon)
		}
		return NewMultiPolygon(polygons...)
	}
}

// Geometries returns the member geometries.
func (c *GeometryCollection) Geometries() []Geometry { return c.geoms }

func (c *GeometryCollection) GeomType() Type { return TypeGeometryCollection }

// Dimension is the maximum dimension over the members, 0 when empty.
func (c *GeometryCollection) Dimension() int {
	dim := 0
	for _, g := range c.geoms {
		if d := g.Dimension(); d > dim {
			dim = d
		}
	}
	return dim
}

func (c *GeometryCollection) NumGeometries() int { return len(c.geoms) }

// Geometry returns the i-th member.
func (c *GeometryCollection) Geometry(i int) Geometry { return c.geoms[i] }

func (c *GeometryCollection) IsEmpty() bool {
	for _, g := range c.geoms {
		if !g.IsEmpty() {
			return false
		}
	}
	return true
}

func (c *GeometryCollection) Is3D() bool {
	for _, g := range c.geoms {
		if g.Is3D() {
			return true
		}
	}
	return false
}

func (c *GeometryCollection) IsMeasured() bool {
	for _, g := range c.geoms {
		if g.IsMeasured() {
			return true
		}
	}
	return false
}

func (c *GeometryCollection) SetSRID(srid int) {
	c.setSRIDLocal(srid)
	for _, g := range c.geoms {
		g.SetSRID(srid)
	}
}

func (c *GeometryCollection) BBox() *BBox {
	return mergeBBoxes(c.geoms)
}

// AsArray mirrors the members as a []any of their own array forms.
func (c *GeometryCollection) AsArray() any {
	out := make([]any, len(c.geoms))
	for i, g := range c.geoms {
		out[i] = g.AsArray()
	}
	return out
}

func (c *GeometryCollection) Components() []Geometry {
	out := make([]Geometry, len(c.geoms))
	copy(out, c.geoms)
	return out
}

func (c *GeometryCollection) Equals(other Geometry) bool {
	o, ok := other.(*GeometryCollection)
	if !ok || len(c.geoms) != len(o.geoms) {
		return false
	}
	for i, g := range c.geoms {
		if !g.Equals(o.geoms[i]) {
			return false
		}
	}
	return true
}

func (c *GeometryCollection) InvertXY() {
	for _, g := range c.geoms {
		g.InvertXY()
	}
}

func (c *GeometryCollection) Flatten() {
	for _, g := range c.geoms {
		g.Flatten()
	}
}
