package wkb

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

// Read parses a well-known-binary geometry. The "hex" arg decodes the
// ASCII hex transport first. Trailing bytes after a complete geometry are
// ignored, matching how database drivers hand over row buffers.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	raw := data
	if geomio.HasArg(args, "hex") {
		decoded, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, errors.NewParse(c.tag(), data, "invalid hex encoding")
		}
		raw = decoded
	}
	r := &reader{buf: raw, src: data, tag: c.tag()}
	return r.geometry(0)
}

// reader walks a byte buffer, keeping the original input around for error
// excerpts.
type reader struct {
	buf []byte
	pos int
	src []byte
	tag string
}

func (r *reader) errorf(format string, args ...any) error {
	return errors.NewParse(r.tag, r.src, fmt.Sprintf(format, args...))
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

func (r *reader) uint32(order binary.ByteOrder) (uint32, error) {
	if r.remaining() < 4 {
		return 0, r.errorf("unexpected end of input at offset %d", r.pos)
	}
	v := order.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) float64(order binary.ByteOrder) (float64, error) {
	if r.remaining() < 8 {
		return 0, r.errorf("unexpected end of input at offset %d", r.pos)
	}
	v := math.Float64frombits(order.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

// geometry reads one complete geometry including its header.
func (r *reader) geometry(depth int) (geom.Geometry, error) {
	if depth > maxNesting {
		return nil, r.errorf("geometry nesting exceeds %d levels", maxNesting)
	}

	orderByte, err := r.byte()
	if err != nil {
		return nil, err
	}
	var order binary.ByteOrder
	switch orderByte {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return nil, r.errorf("invalid byte order marker %#02x", orderByte)
	}

	code, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	hasZ := code&flagZ != 0
	hasM := code&flagM != 0
	hasSRID := code&flagSRID != 0
	base := code &^ uint32(flagZ|flagM|flagSRID)
	// ISO encodes dimensionality in the thousands digit instead of flag
	// bits; accept both.
	switch {
	case base >= 3000 && base < 4000:
		hasZ, hasM = true, true
		base -= 3000
	case base >= 2000 && base < 3000:
		hasM = true
		base -= 2000
	case base >= 1000 && base < 2000:
		hasZ = true
		base -= 1000
	}

	srid := uint32(0)
	if hasSRID {
		if srid, err = r.uint32(order); err != nil {
			return nil, err
		}
	}

	kind := geom.Type(base)
	if !kind.IsValid() {
		return nil, r.errorf("unknown geometry type code %d", code)
	}

	var g geom.Geometry
	switch kind {
	case geom.TypePoint:
		g, err = r.point(order, hasZ, hasM)
	case geom.TypeLineString:
		g, err = r.lineString(order, hasZ, hasM)
	case geom.TypePolygon:
		g, err = r.polygon(order, hasZ, hasM)
	default:
		g, err = r.collection(kind, order, depth)
	}
	if err != nil {
		return nil, err
	}
	if srid != 0 {
		g.SetSRID(int(int32(srid)))
	}
	return g, nil
}

// point reads a headerless coordinate block as a Point. A NaN x or y is
// the empty-point convention.
func (r *reader) point(order binary.ByteOrder, hasZ, hasM bool) (*geom.Point, error) {
	x, err := r.float64(order)
	if err != nil {
		return nil, err
	}
	y, err := r.float64(order)
	if err != nil {
		return nil, err
	}
	z, m := math.NaN(), math.NaN()
	if hasZ {
		if z, err = r.float64(order); err != nil {
			return nil, err
		}
	}
	if hasM {
		if m, err = r.float64(order); err != nil {
			return nil, err
		}
	}
	switch {
	case hasZ && hasM:
		return geom.NewPointZM(x, y, z, m), nil
	case hasZ:
		return geom.NewPointZ(x, y, z), nil
	case hasM:
		return geom.NewPointM(x, y, m), nil
	default:
		return geom.NewPoint(x, y), nil
	}
}

// pointRun reads a count-prefixed run of headerless coordinate blocks.
func (r *reader) pointRun(order binary.ByteOrder, hasZ, hasM bool) ([]*geom.Point, error) {
	count, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	// Each point occupies at least 16 bytes; a count past that bound is a
	// corrupt or hostile length prefix, not a real geometry.
	if int64(count) > int64(r.remaining()/16) {
		return nil, r.errorf("point count %d exceeds remaining input", count)
	}
	points := make([]*geom.Point, count)
	for i := range points {
		if points[i], err = r.point(order, hasZ, hasM); err != nil {
			return nil, err
		}
	}
	return points, nil
}

func (r *reader) lineString(order binary.ByteOrder, hasZ, hasM bool) (*geom.LineString, error) {
	points, err := r.pointRun(order, hasZ, hasM)
	if err != nil {
		return nil, err
	}
	return geom.NewLineString(points...)
}

func (r *reader) polygon(order binary.ByteOrder, hasZ, hasM bool) (*geom.Polygon, error) {
	ringCount, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	if int64(ringCount) > int64(r.remaining()/4) {
		return nil, r.errorf("ring count %d exceeds remaining input", ringCount)
	}
	rings := make([]*geom.LineString, ringCount)
	for i := range rings {
		points, err := r.pointRun(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		if rings[i], err = geom.NewLineString(points...); err != nil {
			return nil, err
		}
	}
	return geom.NewPolygon(rings...)
}

// collection reads a count-prefixed run of complete nested geometries and
// wraps them in the container kind.
func (r *reader) collection(kind geom.Type, order binary.ByteOrder, depth int) (geom.Geometry, error) {
	count, err := r.uint32(order)
	if err != nil {
		return nil, err
	}
	// A nested geometry header is at least 5 bytes.
	if int64(count) > int64(r.remaining()/5) {
		return nil, r.errorf("geometry count %d exceeds remaining input", count)
	}
	comps := make([]geom.Geometry, count)
	for i := range comps {
		if comps[i], err = r.geometry(depth + 1); err != nil {
			return nil, err
		}
	}
	if kind == geom.TypeGeometryCollection {
		return geom.NewGeometryCollection(comps...)
	}
	return geom.NewMulti(geom.AtomicTypeFor(kind), comps)
}
