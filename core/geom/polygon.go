package geom

import (
	"math"

	"github.com/geomkit/geomkit/core/errors"
)

// Polygon is a surface bounded by rings: ring 0 is the exterior boundary,
// any further rings are holes. Every non-empty ring must be closed with at
// least four points; empty rings are permitted as components.
type Polygon struct {
	geomBase
	rings []*LineString
}

// NewPolygon validates and builds a polygon from the given rings.
func NewPolygon(rings ...*LineString) (*Polygon, error) {
	for i, r := range rings {
		if r == nil {
			return nil, errors.NewInvalidGeometry("Polygon", "nil ring component")
		}
		if !r.IsRing() {
			return nil, errors.Wrapf(
				errors.NewInvalidGeometry("Polygon", "ring is not closed with at least four points"),
				"ring %d", i)
		}
	}
	return &Polygon{rings: rings}, nil
}

// Rings returns the ring sequence, exterior first.
func (p *Polygon) Rings() []*LineString { return p.rings }

// NumRings returns the ring count, holes included.
func (p *Polygon) NumRings() int { return len(p.rings) }

// ExteriorRing returns ring 0, or nil for the empty polygon.
func (p *Polygon) ExteriorRing() *LineString {
	if len(p.rings) == 0 {
		return nil
	}
	return p.rings[0]
}

func (p *Polygon) GeomType() Type { return TypePolygon }
func (p *Polygon) Dimension() int { return 2 }

func (p *Polygon) IsEmpty() bool {
	for _, r := range p.rings {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

func (p *Polygon) Is3D() bool {
	for _, r := range p.rings {
		if r.Is3D() {
			return true
		}
	}
	return false
}

func (p *Polygon) IsMeasured() bool {
	for _, r := range p.rings {
		if r.IsMeasured() {
			return true
		}
	}
	return false
}

func (p *Polygon) SetSRID(srid int) {
	p.setSRIDLocal(srid)
	for _, r := range p.rings {
		r.SetSRID(srid)
	}
}

func (p *Polygon) BBox() *BBox {
	if len(p.rings) == 0 {
		return nil
	}
	return p.rings[0].BBox()
}

// AsArray mirrors the ring structure as [][][]float64.
func (p *Polygon) AsArray() any {
	out := make([][][]float64, len(p.rings))
	for i, r := range p.rings {
		out[i] = r.AsArray().([][]float64)
	}
	return out
}

// Components returns the rings as geometries.
func (p *Polygon) Components() []Geometry {
	out := make([]Geometry, len(p.rings))
	for i, r := range p.rings {
		out[i] = r
	}
	return out
}

// Area returns the planar area via the shoelace formula: exterior area
// minus hole areas. It is a flat-plane figure, not a geodesic one.
func (p *Polygon) Area() float64 {
	if len(p.rings) == 0 {
		return 0
	}
	area := ringArea(p.rings[0])
	for _, hole := range p.rings[1:] {
		area -= ringArea(hole)
	}
	if area < 0 {
		return 0
	}
	return area
}

func ringArea(r *LineString) float64 {
	pts := r.Points()
	if len(pts) < 4 {
		return 0
	}
	var sum float64
	for i := 0; i < len(pts)-1; i++ {
		sum += pts[i].x*pts[i+1].y - pts[i+1].x*pts[i].y
	}
	return math.Abs(sum) / 2
}

func (p *Polygon) Equals(other Geometry) bool {
	o, ok := other.(*Polygon)
	if !ok || len(p.rings) != len(o.rings) {
		return false
	}
	for i, r := range p.rings {
		if !r.Equals(o.rings[i]) {
			return false
		}
	}
	return true
}

func (p *Polygon) InvertXY() {
	for _, r := range p.rings {
		r.InvertXY()
	}
}

func (p *Polygon) Flatten() {
	for _, r := range p.rings {
		r.Flatten()
	}
}

// Clone returns a deep copy of the polygon.
func (p *Polygon) Clone() *Polygon {
	rings := make([]*LineString, len(p.rings))
	for i, r := range p.rings {
		rings[i] = r.Clone()
	}
	c := &Polygon{rings: rings}
	c.srid = p.srid
	c.data = p.data
	return c
}
