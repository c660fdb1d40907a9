// Package geom implements the in-memory vector geometry model: a closed set
// of geometry kinds sharing one capability surface, with eagerly validated
// constructors and the reduce/build algebra for combining geometries.
//
// All concrete kinds are pointer types owned strictly tree-shaped: a
// container exclusively owns its children, there is no sharing and no
// cycles. Constructors either return a valid instance or an
// errors.InvalidGeometryError naming the violated invariant.
package geom

// Type identifies a concrete geometry kind. The numeric values deliberately
// match the well-known-binary base type codes (low nibble of the WKB type
// word), which keeps the codec mapping a straight conversion.
type Type uint32

// Geometry kind constants.
const (
	// NoType is the zero Type; no valid geometry carries it.
	NoType Type = 0
	// TypePoint is a zero-dimensional position.
	TypePoint Type = 1
	// TypeLineString is an ordered point sequence.
	TypeLineString Type = 2
	// TypePolygon is a surface bounded by rings.
	TypePolygon Type = 3
	// TypeMultiPoint is a homogeneous collection of Points.
	TypeMultiPoint Type = 4
	// TypeMultiLineString is a homogeneous collection of LineStrings.
	TypeMultiLineString Type = 5
	// TypeMultiPolygon is a homogeneous collection of Polygons.
	TypeMultiPolygon Type = 6
	// TypeGeometryCollection is a heterogeneous geometry collection.
	TypeGeometryCollection Type = 7
)

var typeNames = map[Type]string{
	TypePoint:              "Point",
	TypeLineString:         "LineString",
	TypePolygon:            "Polygon",
	TypeMultiPoint:         "MultiPoint",
	TypeMultiLineString:    "MultiLineString",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
}

// String returns the canonical mixed-case kind name (e.g. "MultiPoint").
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsValid returns true for the seven concrete geometry kinds.
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// IsMulti returns true for the three homogeneous multi kinds.
// GeometryCollection is not a multi kind; it is heterogeneous.
func (t Type) IsMulti() bool {
	return t == TypeMultiPoint || t == TypeMultiLineString || t == TypeMultiPolygon
}

// IsAtomic returns true for Point, LineString and Polygon.
func (t Type) IsAtomic() bool {
	return t == TypePoint || t == TypeLineString || t == TypePolygon
}

// MultiTypeFor returns the natural multi-container kind for an atomic kind,
// or NoType when the kind has no such container (multi kinds and
// collections have none; there is no MultiMultiPoint).
func MultiTypeFor(t Type) Type {
	switch t {
	case TypePoint:
		return TypeMultiPoint
	case TypeLineString:
		return TypeMultiLineString
	case TypePolygon:
		return TypeMultiPolygon
	default:
		return NoType
	}
}

// AtomicTypeFor returns the member kind a multi kind holds, or NoType for
// anything that is not a homogeneous multi kind.
func AtomicTypeFor(t Type) Type {
	switch t {
	case TypeMultiPoint:
		return TypePoint
	case TypeMultiLineString:
		return TypeLineString
	case TypeMultiPolygon:
		return TypePolygon
	default:
		return NoType
	}
}

// Geometry is the capability surface shared by every geometry kind.
type Geometry interface {
	// GeomType reports the concrete kind.
	GeomType() Type

	// Dimension reports the topological dimension: 0 for points, 1 for
	// curves, 2 for surfaces; collections report the maximum over their
	// members.
	Dimension() int

	// IsEmpty reports whether the geometry carries no coordinates.
	IsEmpty() bool

	// Is3D reports whether any coordinate carries a z value.
	Is3D() bool

	// IsMeasured reports whether any coordinate carries an m value.
	IsMeasured() bool

	// SRID returns the spatial reference identifier, 0 when unset.
	// It is mutable after construction and never part of equality.
	SRID() int

	// SetSRID sets the spatial reference identifier on the geometry and,
	// recursively, on all of its children.
	SetSRID(srid int)

	// BBox returns the two-dimensional bounding box, or nil when empty.
	BBox() *BBox

	// AsArray dumps the coordinates as nested slices mirroring the tree
	// shape: []float64 for Point, [][]float64 for LineString, and so on.
	// An empty Point reports the legacy [NaN, NaN] pair; internally
	// absence is tracked explicitly, never as a NaN sentinel.
	AsArray() any

	// Components returns the direct children: rings for a Polygon, member
	// points for a LineString when explicitly asked, members for multi
	// kinds and collections, nil for a Point. The reduce/build algebra
	// explodes only multi kinds and collections, never atomic kinds.
	Components() []Geometry

	// Equals reports structural equality: same kind, same coordinate
	// presence and values, recursively. SRID and payload data are
	// excluded from the comparison.
	Equals(other Geometry) bool

	// Data returns the opaque payload travelling with the geometry
	// (feature metadata and the like), nil when unset.
	Data() any

	// SetData attaches an opaque payload. The payload never participates
	// in structural comparison.
	SetData(data any)

	// InvertXY swaps the x and y of every coordinate in place.
	InvertXY()

	// Flatten removes z and m values from every coordinate in place.
	Flatten()
}

// Curve is the one-dimensional geometry abstraction.
type Curve interface {
	Geometry
	IsClosed() bool
}

// Surface is the two-dimensional geometry abstraction. Polygon is its only
// concrete kind; MultiPolygon is its multi form. Dimension is fixed at 2.
type Surface interface {
	Geometry
	Area() float64
}

// Multi is implemented by the homogeneous multi kinds and by
// GeometryCollection.
type Multi interface {
	Geometry
	NumGeometries() int
	Geometry(i int) Geometry
}

// geomBase carries the cross-cutting attributes shared by every kind.
type geomBase struct {
	srid int
	data any
}

func (b *geomBase) SRID() int        { return b.srid }
func (b *geomBase) Data() any        { return b.data }
func (b *geomBase) SetData(data any) { b.data = data }

// setSRIDLocal sets the identifier on this node only; each kind's SetSRID
// recurses into children itself.
func (b *geomBase) setSRIDLocal(srid int) { b.srid = srid }
