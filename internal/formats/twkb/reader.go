package twkb

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
)

// Read parses a compact delta-encoded geometry. The "hex" arg decodes the
// ASCII hex transport first. Trailing bytes after a complete geometry are
// ignored.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	raw := data
	if geomio.HasArg(args, "hex") {
		decoded, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, errors.NewParse("twkb", data, "invalid hex encoding")
		}
		raw = decoded
	}
	r := &reader{buf: raw, src: data}
	return r.geometry(0)
}

// reader walks a byte buffer, keeping the original input around for error
// excerpts.
type reader struct {
	buf []byte
	pos int
	src []byte
}

func (r *reader) errorf(format string, args ...any) error {
	return errors.NewParse("twkb", r.src, fmt.Sprintf(format, args...))
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) byte() (byte, error) {
	if r.remaining() < 1 {
		return 0, r.errorf("unexpected end of input at offset %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, r.errorf("truncated or oversized varint at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

func (r *reader) svarint() (int64, error) {
	v, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	return unzigzag(v), nil
}

// header captures everything the leading bytes declare about the geometry
// that follows.
type header struct {
	kind    geom.Type
	hasZ    bool
	hasM    bool
	idList  bool
	factorX float64
	factorZ float64
	factorM float64
}

func (h header) dims() int {
	n := 2
	if h.hasZ {
		n++
	}
	if h.hasM {
		n++
	}
	return n
}

// geometry reads one complete geometry including its headers.
func (r *reader) geometry(depth int) (geom.Geometry, error) {
	if depth > maxNesting {
		return nil, r.errorf("geometry nesting exceeds %d levels", maxNesting)
	}
	first, err := r.byte()
	if err != nil {
		return nil, err
	}
	kind := geom.Type(first & 0x0F)
	if !kind.IsValid() {
		return nil, r.errorf("unknown geometry type %d", first&0x0F)
	}
	meta, err := r.byte()
	if err != nil {
		return nil, err
	}
	h := header{
		kind:    kind,
		idList:  meta&flagIDList != 0,
		factorX: math.Pow10(int(unzigzag(uint64(first >> 4)))),
		factorZ: 1,
		factorM: 1,
	}
	if meta&flagExtended != 0 {
		ext, err := r.byte()
		if err != nil {
			return nil, err
		}
		h.hasZ = ext&extHasZ != 0
		h.hasM = ext&extHasM != 0
		h.factorZ = math.Pow10(int(ext >> 2 & 0x07))
		h.factorM = math.Pow10(int(ext >> 5 & 0x07))
	}
	if meta&flagSize != 0 {
		// Byte size of the remainder. Useful for skipping over geometries
		// in a stream; parsing does not need it.
		if _, err := r.uvarint(); err != nil {
			return nil, err
		}
	}
	if meta&flagEmpty != 0 {
		return r.empty(h.kind)
	}
	if meta&flagBBox != 0 {
		// Per-dimension min and extent, already in scaled integer space.
		for i := 0; i < h.dims()*2; i++ {
			if _, err := r.svarint(); err != nil {
				return nil, err
			}
		}
	}

	d := &deltas{}
	switch h.kind {
	case geom.TypePoint:
		return r.tuple(h, d)
	case geom.TypeLineString:
		return r.lineString(h, d)
	case geom.TypePolygon:
		return r.polygon(h, d)
	case geom.TypeMultiPoint:
		return r.multiPoint(h, d)
	case geom.TypeMultiLineString:
		return r.multiLineString(h, d)
	case geom.TypeMultiPolygon:
		return r.multiPolygon(h, d)
	default:
		return r.collection(h, depth)
	}
}

func (r *reader) empty(kind geom.Type) (geom.Geometry, error) {
	switch kind {
	case geom.TypePoint:
		return geom.NewEmptyPoint(), nil
	case geom.TypeLineString:
		return geom.NewLineString()
	case geom.TypePolygon:
		return geom.NewPolygon()
	case geom.TypeMultiPoint:
		return geom.NewMultiPoint()
	case geom.TypeMultiLineString:
		return geom.NewMultiLineString()
	case geom.TypeMultiPolygon:
		return geom.NewMultiPolygon()
	default:
		return geom.NewGeometryCollection()
	}
}

// deltas is the running coordinate state. Every stored value is a
// difference against the previous one in the same dimension, carried
// across rings and members within one geometry.
type deltas struct {
	x, y, z, m int64
}

func (r *reader) step(prev *int64, factor float64) (float64, error) {
	delta, err := r.svarint()
	if err != nil {
		return 0, err
	}
	*prev += delta
	return float64(*prev) / factor, nil
}

func (r *reader) tuple(h header, d *deltas) (*geom.Point, error) {
	x, err := r.step(&d.x, h.factorX)
	if err != nil {
		return nil, err
	}
	y, err := r.step(&d.y, h.factorX)
	if err != nil {
		return nil, err
	}
	var z, m float64
	if h.hasZ {
		if z, err = r.step(&d.z, h.factorZ); err != nil {
			return nil, err
		}
	}
	if h.hasM {
		if m, err = r.step(&d.m, h.factorM); err != nil {
			return nil, err
		}
	}
	switch {
	case h.hasZ && h.hasM:
		return geom.NewPointZM(x, y, z, m), nil
	case h.hasZ:
		return geom.NewPointZ(x, y, z), nil
	case h.hasM:
		return geom.NewPointM(x, y, m), nil
	default:
		return geom.NewPoint(x, y), nil
	}
}

// pointRun reads count coordinate tuples. Every tuple needs at least one
// byte per dimension, which bounds a hostile count against the remaining
// input.
func (r *reader) pointRun(h header, d *deltas, count uint64) ([]*geom.Point, error) {
	if int64(count) > int64(r.remaining()/h.dims()) {
		return nil, r.errorf("point count %d exceeds remaining input", count)
	}
	points := make([]*geom.Point, count)
	for i := range points {
		p, err := r.tuple(h, d)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

func (r *reader) countedRun(h header, d *deltas) ([]*geom.Point, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	return r.pointRun(h, d, count)
}

func (r *reader) lineString(h header, d *deltas) (geom.Geometry, error) {
	points, err := r.countedRun(h, d)
	if err != nil {
		return nil, err
	}
	l, err := geom.NewLineString(points...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ring reads one polygon ring. Writers may omit the closing point, so an
// unclosed ring is closed here before validation.
func (r *reader) ring(h header, d *deltas) (*geom.LineString, error) {
	points, err := r.countedRun(h, d)
	if err != nil {
		return nil, err
	}
	if n := len(points); n > 1 && !points[0].Equals(points[n-1]) {
		points = append(points, clonePoint(points[0]))
	}
	return geom.NewLineString(points...)
}

func (r *reader) ringRun(h header, d *deltas) ([]*geom.LineString, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if int64(count) > int64(r.remaining()) {
		return nil, r.errorf("ring count %d exceeds remaining input", count)
	}
	rings := make([]*geom.LineString, count)
	for i := range rings {
		ring, err := r.ring(h, d)
		if err != nil {
			return nil, err
		}
		rings[i] = ring
	}
	return rings, nil
}

func (r *reader) polygon(h header, d *deltas) (geom.Geometry, error) {
	rings, err := r.ringRun(h, d)
	if err != nil {
		return nil, err
	}
	p, err := geom.NewPolygon(rings...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// idList consumes the optional per-member identifier list. Identifiers
// have no home in the geometry model, so they are dropped.
func (r *reader) idList(h header, count uint64) error {
	if !h.idList {
		return nil
	}
	if int64(count) > int64(r.remaining()) {
		return r.errorf("id list count %d exceeds remaining input", count)
	}
	for i := uint64(0); i < count; i++ {
		if _, err := r.svarint(); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) multiPoint(h header, d *deltas) (geom.Geometry, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if err := r.idList(h, count); err != nil {
		return nil, err
	}
	points, err := r.pointRun(h, d, count)
	if err != nil {
		return nil, err
	}
	m, err := geom.NewMultiPoint(points...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *reader) multiLineString(h header, d *deltas) (geom.Geometry, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if err := r.idList(h, count); err != nil {
		return nil, err
	}
	if int64(count) > int64(r.remaining()) {
		return nil, r.errorf("member count %d exceeds remaining input", count)
	}
	lines := make([]*geom.LineString, count)
	for i := range lines {
		points, err := r.countedRun(h, d)
		if err != nil {
			return nil, err
		}
		l, err := geom.NewLineString(points...)
		if err != nil {
			return nil, err
		}
		lines[i] = l
	}
	m, err := geom.NewMultiLineString(lines...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *reader) multiPolygon(h header, d *deltas) (geom.Geometry, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if err := r.idList(h, count); err != nil {
		return nil, err
	}
	if int64(count) > int64(r.remaining()) {
		return nil, r.errorf("member count %d exceeds remaining input", count)
	}
	polys := make([]*geom.Polygon, count)
	for i := range polys {
		rings, err := r.ringRun(h, d)
		if err != nil {
			return nil, err
		}
		p, err := geom.NewPolygon(rings...)
		if err != nil {
			return nil, err
		}
		polys[i] = p
	}
	m, err := geom.NewMultiPolygon(polys...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// collection reads count complete nested geometries, each with its own
// headers and delta state.
func (r *reader) collection(h header, depth int) (geom.Geometry, error) {
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if err := r.idList(h, count); err != nil {
		return nil, err
	}
	if int64(count) > int64(r.remaining()/2) {
		return nil, r.errorf("geometry count %d exceeds remaining input", count)
	}
	geoms := make([]geom.Geometry, count)
	for i := range geoms {
		g, err := r.geometry(depth + 1)
		if err != nil {
			return nil, err
		}
		geoms[i] = g
	}
	gc, err := geom.NewGeometryCollection(geoms...)
	if err != nil {
		return nil, err
	}
	return gc, nil
}

func clonePoint(p *geom.Point) *geom.Point {
	z, hasZ := p.Z()
	m, hasM := p.M()
	switch {
	case hasZ && hasM:
		return geom.NewPointZM(p.X(), p.Y(), z, m)
	case hasZ:
		return geom.NewPointZ(p.X(), p.Y(), z)
	case hasM:
		return geom.NewPointM(p.X(), p.Y(), m)
	default:
		return geom.NewPoint(p.X(), p.Y())
	}
}
