package twkb

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes g as compact delta-format bytes. Args: "hex" emits hex
// text, "bbox" and "size" include the optional prefixes, and a bare
// integer chooses the XY precision.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("twkb", "cannot encode nil geometry")
	}
	opts := writeOptions{precision: defaultPrecision}
	for _, arg := range args {
		switch {
		case strings.EqualFold(arg, "hex"):
			opts.hex = true
		case strings.EqualFold(arg, "bbox"):
			opts.bbox = true
		case strings.EqualFold(arg, "size"):
			opts.size = true
		default:
			if n, err := strconv.Atoi(arg); err == nil {
				opts.precision = n
			}
		}
	}
	// XY precision is zig-zagged into four bits; Z and M precision are
	// three unsigned bits each.
	opts.precision = clamp(opts.precision, -8, 7)

	out, err := encode(g, opts)
	if err != nil {
		return nil, err
	}
	if opts.hex {
		text := make([]byte, hex.EncodedLen(len(out)))
		hex.Encode(text, out)
		return text, nil
	}
	return out, nil
}

type writeOptions struct {
	precision int
	hex       bool
	bbox      bool
	size      bool
}

// encode produces one complete geometry, headers included. Collection
// members recurse here so each carries its own headers and delta state;
// the optional prefixes stay top-level only.
func encode(g geom.Geometry, opts writeOptions) ([]byte, error) {
	zprec := clamp(opts.precision, 0, 7)
	e := &encoder{
		hasZ:    g.Is3D(),
		hasM:    g.IsMeasured(),
		zprec:   zprec,
		mprec:   zprec,
		factorX: math.Pow10(opts.precision),
		factorZ: math.Pow10(zprec),
		factorM: math.Pow10(zprec),
	}
	empty := structurallyEmpty(g)
	if !empty {
		if err := e.writeBody(g, opts); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	out.WriteByte(byte(g.GeomType()) | byte(zigzag(int64(opts.precision)))<<4)

	// Collection members track their own bounds in nested encoders, so a
	// top-level box would be empty; suppress it there.
	meta := byte(0)
	if opts.bbox && !empty && g.GeomType() != geom.TypeGeometryCollection {
		meta |= flagBBox
	}
	if opts.size {
		meta |= flagSize
	}
	if e.hasZ || e.hasM {
		meta |= flagExtended
	}
	if empty {
		meta |= flagEmpty
	}
	out.WriteByte(meta)

	if meta&flagExtended != 0 {
		ext := byte(0)
		if e.hasZ {
			ext |= extHasZ
		}
		if e.hasM {
			ext |= extHasM
		}
		ext |= byte(e.zprec) << 2
		ext |= byte(e.mprec) << 5
		out.WriteByte(ext)
	}

	var bbox bytes.Buffer
	if meta&flagBBox != 0 {
		dims := []int{0, 1}
		if e.hasZ {
			dims = append(dims, 2)
		}
		if e.hasM {
			dims = append(dims, 3)
		}
		for _, dim := range dims {
			putSvarint(&bbox, e.bounds.min[dim])
			putSvarint(&bbox, e.bounds.max[dim]-e.bounds.min[dim])
		}
	}
	if meta&flagSize != 0 {
		putUvarint(&out, uint64(bbox.Len()+e.body.Len()))
	}
	out.Write(bbox.Bytes())
	out.Write(e.body.Bytes())
	return out.Bytes(), nil
}

// encoder holds the running delta state and scaled bounds for one
// geometry.
type encoder struct {
	hasZ, hasM       bool
	zprec, mprec     int
	factorX          float64
	factorZ, factorM float64
	prev             [4]int64
	bounds           bounds
	body             bytes.Buffer
}

func (e *encoder) writeBody(g geom.Geometry, opts writeOptions) error {
	switch t := g.(type) {
	case *geom.Point:
		e.tuple(t)
	case *geom.LineString:
		e.pointRun(t.Points())
	case *geom.Polygon:
		e.rings(t.Rings())
	case *geom.MultiPoint:
		points := t.Points()
		e.count(len(points))
		for _, p := range points {
			e.tuple(p)
		}
	case *geom.MultiLineString:
		lines := t.LineStrings()
		e.count(len(lines))
		for _, l := range lines {
			e.pointRun(l.Points())
		}
	case *geom.MultiPolygon:
		polys := t.Polygons()
		e.count(len(polys))
		for _, p := range polys {
			e.rings(p.Rings())
		}
	case *geom.GeometryCollection:
		nested := opts
		nested.bbox = false
		nested.size = false
		nested.hex = false
		members := t.Geometries()
		e.count(len(members))
		for _, member := range members {
			enc, err := encode(member, nested)
			if err != nil {
				return err
			}
			e.body.Write(enc)
		}
	}
	return nil
}

// tuple writes one coordinate tuple as deltas. Absent scalars are padded
// with zero so mixed-dimension containers stay decodable.
func (e *encoder) tuple(p *geom.Point) {
	e.delta(0, p.X(), e.factorX)
	e.delta(1, p.Y(), e.factorX)
	if e.hasZ {
		z, _ := p.Z()
		e.delta(2, z, e.factorZ)
	}
	if e.hasM {
		m, _ := p.M()
		e.delta(3, m, e.factorM)
	}
}

func (e *encoder) delta(dim int, v, factor float64) {
	var scaled int64
	if !math.IsNaN(v) {
		scaled = int64(math.Round(v * factor))
	}
	putSvarint(&e.body, scaled-e.prev[dim])
	e.prev[dim] = scaled
	e.bounds.update(dim, scaled)
}

func (e *encoder) pointRun(points []*geom.Point) {
	e.count(len(points))
	for _, p := range points {
		e.tuple(p)
	}
}

// rings writes each ring in full, closing point included.
func (e *encoder) rings(rings []*geom.LineString) {
	e.count(len(rings))
	for _, ring := range rings {
		e.pointRun(ring.Points())
	}
}

func (e *encoder) count(n int) { putUvarint(&e.body, uint64(n)) }

// bounds tracks the scaled min and max per dimension for the optional
// bounding-box prefix.
type bounds struct {
	seen [4]bool
	min  [4]int64
	max  [4]int64
}

func (b *bounds) update(dim int, v int64) {
	if !b.seen[dim] {
		b.seen[dim] = true
		b.min[dim], b.max[dim] = v, v
		return
	}
	if v < b.min[dim] {
		b.min[dim] = v
	}
	if v > b.max[dim] {
		b.max[dim] = v
	}
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putSvarint(buf *bytes.Buffer, v int64) { putUvarint(buf, zigzag(v)) }

func structurallyEmpty(g geom.Geometry) bool {
	switch t := g.(type) {
	case *geom.Point:
		return t.IsEmpty()
	case *geom.LineString:
		return t.NumPoints() == 0
	case *geom.Polygon:
		return t.NumRings() == 0
	case geom.Multi:
		return t.NumGeometries() == 0
	default:
		return g.IsEmpty()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
