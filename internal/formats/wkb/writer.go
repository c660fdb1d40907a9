package wkb

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
)

// Write serializes a geometry as little-endian well-known binary. The
// extended codec adds the SRID flag and field when the geometry carries a
// nonzero SRID. The "hex" arg switches the output to lowercase ASCII hex.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("nil", "cannot serialize nil geometry")
	}
	var buf bytes.Buffer
	w := &writer{buf: &buf, extended: c.extended}
	w.geometry(g, true)
	if geomio.HasArg(args, "hex") {
		out := make([]byte, hex.EncodedLen(buf.Len()))
		hex.Encode(out, buf.Bytes())
		return out, nil
	}
	return buf.Bytes(), nil
}

type writer struct {
	buf      *bytes.Buffer
	extended bool
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) float64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

// geometry writes one complete geometry. Only the outermost header may
// carry the SRID; nested members inherit it implicitly, the way the
// extended convention is written by spatial databases.
func (w *writer) geometry(g geom.Geometry, top bool) {
	w.buf.WriteByte(1) // little-endian

	hasZ := g.Is3D()
	hasM := g.IsMeasured()
	code := uint32(g.GeomType())
	if hasZ {
		code |= flagZ
	}
	if hasM {
		code |= flagM
	}
	srid := g.SRID()
	withSRID := w.extended && top && srid != 0
	if withSRID {
		code |= flagSRID
	}
	w.uint32(code)
	if withSRID {
		w.uint32(uint32(int32(srid)))
	}

	switch t := g.(type) {
	case *geom.Point:
		w.point(t, hasZ, hasM)
	case *geom.LineString:
		w.pointRun(t.Points(), hasZ, hasM)
	case *geom.Polygon:
		rings := t.Rings()
		w.uint32(uint32(len(rings)))
		for _, ring := range rings {
			w.pointRun(ring.Points(), hasZ, hasM)
		}
	case *geom.MultiPoint:
		w.members(t.Components())
	case *geom.MultiLineString:
		w.members(t.Components())
	case *geom.MultiPolygon:
		w.members(t.Components())
	case *geom.GeometryCollection:
		w.members(t.Components())
	}
}

// point writes a headerless coordinate block. Empty points become the
// NaN/NaN pair; absent z/m under a Z/M header pad with NaN.
func (w *writer) point(p *geom.Point, hasZ, hasM bool) {
	x, y, ok := p.XY()
	if !ok {
		x, y = math.NaN(), math.NaN()
	}
	w.float64(x)
	w.float64(y)
	if hasZ {
		z, zok := p.Z()
		if !zok {
			z = math.NaN()
		}
		w.float64(z)
	}
	if hasM {
		m, mok := p.M()
		if !mok {
			m = math.NaN()
		}
		w.float64(m)
	}
}

func (w *writer) pointRun(points []*geom.Point, hasZ, hasM bool) {
	w.uint32(uint32(len(points)))
	for _, p := range points {
		w.point(p, hasZ, hasM)
	}
}

func (w *writer) members(comps []geom.Geometry) {
	w.uint32(uint32(len(comps)))
	for _, c := range comps {
		w.geometry(c, false)
	}
}
