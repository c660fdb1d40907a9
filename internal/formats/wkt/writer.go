package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write serializes a geometry as canonical well-known text: uppercase
// keyword, a space before the body, dimension suffix when z or m is
// present. The extended codec prefixes "SRID=n;" for a nonzero SRID.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("nil", "cannot serialize nil geometry")
	}
	var sb strings.Builder
	if c.extended && g.SRID() != 0 {
		fmt.Fprintf(&sb, "SRID=%d;", g.SRID())
	}
	writeGeometry(&sb, g)
	return []byte(sb.String()), nil
}

func writeGeometry(sb *strings.Builder, g geom.Geometry) {
	hasZ := g.Is3D()
	hasM := g.IsMeasured()

	sb.WriteString(strings.ToUpper(g.GeomType().String()))
	switch {
	case hasZ && hasM:
		sb.WriteString(" ZM")
	case hasZ:
		sb.WriteString(" Z")
	case hasM:
		sb.WriteString(" M")
	}

	if structurallyEmpty(g) {
		sb.WriteString(" EMPTY")
		return
	}
	sb.WriteString(" (")
	writeBody(sb, g, hasZ, hasM)
	sb.WriteString(")")
}

// structurallyEmpty distinguishes "no members at all" from "members that
// are themselves empty": a collection holding an empty point still writes
// its member list.
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

func writeBody(sb *strings.Builder, g geom.Geometry, hasZ, hasM bool) {
	switch t := g.(type) {
	case *geom.Point:
		writeTuple(sb, t, hasZ, hasM)
	case *geom.LineString:
		writeTuples(sb, t.Points(), hasZ, hasM)
	case *geom.Polygon:
		for i, ring := range t.Rings() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeGroup(sb, ring, hasZ, hasM)
		}
	case *geom.MultiPoint:
		for i, p := range t.Points() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if p.IsEmpty() {
				sb.WriteString("EMPTY")
				continue
			}
			writeTuple(sb, p, hasZ, hasM)
		}
	case *geom.MultiLineString:
		for i, l := range t.LineStrings() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeGroup(sb, l, hasZ, hasM)
		}
	case *geom.MultiPolygon:
		for i, p := range t.Polygons() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if p.NumRings() == 0 {
				sb.WriteString("EMPTY")
				continue
			}
			sb.WriteString("(")
			writeBody(sb, p, hasZ, hasM)
			sb.WriteString(")")
		}
	case *geom.GeometryCollection:
		for i, member := range t.Geometries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeGeometry(sb, member)
		}
	}
}

// writeGroup writes a linestring body as a parenthesized group, or EMPTY
// when it has no points.
func writeGroup(sb *strings.Builder, l *geom.LineString, hasZ, hasM bool) {
	if l.NumPoints() == 0 {
		sb.WriteString("EMPTY")
		return
	}
	sb.WriteString("(")
	writeTuples(sb, l.Points(), hasZ, hasM)
	sb.WriteString(")")
}

func writeTuples(sb *strings.Builder, points []*geom.Point, hasZ, hasM bool) {
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeTuple(sb, p, hasZ, hasM)
	}
}

// writeTuple writes one coordinate tuple under the container's dimension
// flags, padding an absent z or m with 0.
func writeTuple(sb *strings.Builder, p *geom.Point, hasZ, hasM bool) {
	x, y, _ := p.XY()
	sb.WriteString(formatNum(x))
	sb.WriteString(" ")
	sb.WriteString(formatNum(y))
	if hasZ {
		z, _ := p.Z()
		sb.WriteString(" ")
		sb.WriteString(formatNum(z))
	}
	if hasM {
		m, _ := p.M()
		sb.WriteString(" ")
		sb.WriteString(formatNum(m))
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
