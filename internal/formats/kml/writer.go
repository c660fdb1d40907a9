package kml

import (
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes a geometry as a KML fragment. An optional first arg is
// used as a namespace prefix for every tag, so Write(g, "kml") emits
// <kml:Point> instead of <Point>.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("kml", "cannot encode a nil geometry")
	}
	w := &writer{hasZ: g.Is3D()}
	if len(args) > 0 && args[0] != "" {
		w.prefix = args[0] + ":"
	}
	var sb strings.Builder
	w.geometry(&sb, g)
	return []byte(sb.String()), nil
}

type writer struct {
	prefix string
	hasZ   bool
}

func (w *writer) geometry(sb *strings.Builder, g geom.Geometry) {
	switch g := g.(type) {
	case *geom.Point:
		w.point(sb, g)
	case *geom.LineString:
		w.lineString(sb, g)
	case *geom.Polygon:
		w.polygon(sb, g)
	default:
		w.open(sb, "MultiGeometry")
		if m, ok := g.(geom.Multi); ok {
			for i := 0; i < m.NumGeometries(); i++ {
				w.geometry(sb, m.Geometry(i))
			}
		}
		w.close(sb, "MultiGeometry")
	}
}

func (w *writer) point(sb *strings.Builder, p *geom.Point) {
	w.open(sb, "Point")
	w.open(sb, "coordinates")
	if !p.IsEmpty() {
		sb.WriteString(w.tuple(p))
	}
	w.close(sb, "coordinates")
	w.close(sb, "Point")
}

func (w *writer) lineString(sb *strings.Builder, l *geom.LineString) {
	w.open(sb, "LineString")
	w.coordinates(sb, l)
	w.close(sb, "LineString")
}

func (w *writer) polygon(sb *strings.Builder, p *geom.Polygon) {
	w.open(sb, "Polygon")
	for i, ring := range p.Rings() {
		boundary := "innerBoundaryIs"
		if i == 0 {
			boundary = "outerBoundaryIs"
		}
		w.open(sb, boundary)
		w.open(sb, "LinearRing")
		w.coordinates(sb, ring)
		w.close(sb, "LinearRing")
		w.close(sb, boundary)
	}
	w.close(sb, "Polygon")
}

func (w *writer) coordinates(sb *strings.Builder, l *geom.LineString) {
	w.open(sb, "coordinates")
	for i, p := range l.Points() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.tuple(p))
	}
	w.close(sb, "coordinates")
}

// tuple renders one longitude,latitude[,altitude] triple. KML has no
// measure slot, so M is dropped.
func (w *writer) tuple(p *geom.Point) string {
	s := formatNum(p.X()) + "," + formatNum(p.Y())
	if w.hasZ {
		z, _ := p.Z()
		s += "," + formatNum(z)
	}
	return s
}

func (w *writer) open(sb *strings.Builder, tag string) {
	sb.WriteByte('<')
	sb.WriteString(w.prefix)
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func (w *writer) close(sb *strings.Builder, tag string) {
	sb.WriteString("</")
	sb.WriteString(w.prefix)
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
