package geom

import "math"

// Point is a zero-dimensional geometry of up to four coordinate scalars.
// Each scalar is independently optional; absence is tracked with explicit
// flags rather than NaN sentinels. A point missing x or y is empty but is
// still a valid geometry. NaN only reappears at the AsArray boundary,
// where an empty point reports the legacy [NaN, NaN] pair.
type Point struct {
	geomBase
	x, y, z, m float64
	hasXY      bool
	hasZ       bool
	hasM       bool
}

// NewPoint returns a two-dimensional point. A NaN x or y is the
// well-known-binary empty-point convention and yields an empty point.
func NewPoint(x, y float64) *Point {
	if math.IsNaN(x) || math.IsNaN(y) {
		return NewEmptyPoint()
	}
	return &Point{x: x, y: y, hasXY: true}
}

// NewPointZ returns a point carrying a z value.
func NewPointZ(x, y, z float64) *Point {
	p := NewPoint(x, y)
	if p.hasXY && !math.IsNaN(z) {
		p.z = z
		p.hasZ = true
	}
	return p
}

// NewPointM returns a point carrying an m value but no z.
func NewPointM(x, y, m float64) *Point {
	p := NewPoint(x, y)
	if p.hasXY && !math.IsNaN(m) {
		p.m = m
		p.hasM = true
	}
	return p
}

// NewPointZM returns a point carrying both z and m values.
func NewPointZM(x, y, z, m float64) *Point {
	p := NewPointZ(x, y, z)
	if p.hasXY && !math.IsNaN(m) {
		p.m = m
		p.hasM = true
	}
	return p
}

// NewEmptyPoint returns the empty point: no coordinates, dimension 0.
func NewEmptyPoint() *Point {
	return &Point{}
}

// XY returns the x and y values; ok is false for the empty point.
func (p *Point) XY() (x, y float64, ok bool) {
	return p.x, p.y, p.hasXY
}

// X returns the x value, NaN for the empty point.
func (p *Point) X() float64 {
	if !p.hasXY {
		return math.NaN()
	}
	return p.x
}

// Y returns the y value, NaN for the empty point.
func (p *Point) Y() float64 {
	if !p.hasXY {
		return math.NaN()
	}
	return p.y
}

// Z returns the z value; ok is false when no z is present.
func (p *Point) Z() (float64, bool) {
	return p.z, p.hasZ
}

// M returns the m value; ok is false when no m is present.
func (p *Point) M() (float64, bool) {
	return p.m, p.hasM
}

func (p *Point) GeomType() Type   { return TypePoint }
func (p *Point) Dimension() int   { return 0 }
func (p *Point) IsEmpty() bool    { return !p.hasXY }
func (p *Point) Is3D() bool       { return p.hasZ }
func (p *Point) IsMeasured() bool { return p.hasM }

func (p *Point) SetSRID(srid int) { p.setSRIDLocal(srid) }

func (p *Point) BBox() *BBox {
	if !p.hasXY {
		return nil
	}
	return &BBox{MinX: p.x, MinY: p.y, MaxX: p.x, MaxY: p.y}
}

// AsArray reports [NaN, NaN] for the empty point, [x, y] for a plain
// point, [x, y, z] with z, [x, y, NaN, m] with m only, and [x, y, z, m]
// with both. The NaN filler keeps m at index 3.
func (p *Point) AsArray() any {
	switch {
	case !p.hasXY:
		return []float64{math.NaN(), math.NaN()}
	case p.hasZ && p.hasM:
		return []float64{p.x, p.y, p.z, p.m}
	case p.hasZ:
		return []float64{p.x, p.y, p.z}
	case p.hasM:
		return []float64{p.x, p.y, math.NaN(), p.m}
	default:
		return []float64{p.x, p.y}
	}
}

func (p *Point) Components() []Geometry { return nil }

func (p *Point) Equals(other Geometry) bool {
	o, ok := other.(*Point)
	if !ok {
		return false
	}
	if p.hasXY != o.hasXY || p.hasZ != o.hasZ || p.hasM != o.hasM {
		return false
	}
	if !p.hasXY {
		return true
	}
	if p.x != o.x || p.y != o.y {
		return false
	}
	if p.hasZ && p.z != o.z {
		return false
	}
	if p.hasM && p.m != o.m {
		return false
	}
	return true
}

func (p *Point) InvertXY() {
	if p.hasXY {
		p.x, p.y = p.y, p.x
	}
}

func (p *Point) Flatten() {
	p.z, p.m = 0, 0
	p.hasZ, p.hasM = false, false
}

// Clone returns a deep copy sharing nothing with the receiver. The payload
// reference is carried over as-is; payloads are opaque to the model.
func (p *Point) Clone() *Point {
	c := *p
	return &c
}
