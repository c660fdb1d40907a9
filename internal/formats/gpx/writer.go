package gpx

import (
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes a geometry as a GPX document. An optional first arg is
// used as a namespace prefix for every tag. Empty points have no
// representation and are skipped; measures are dropped.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("gpx", "cannot encode a nil geometry")
	}
	w := &writer{hasZ: g.Is3D()}
	if len(args) > 0 && args[0] != "" {
		w.prefix = args[0] + ":"
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(w.prefix)
	sb.WriteString(`gpx creator="geomkit" version="1.1">`)
	w.geometry(&sb, g)
	sb.WriteString("</")
	sb.WriteString(w.prefix)
	sb.WriteString("gpx>")
	return []byte(sb.String()), nil
}

type writer struct {
	prefix string
	hasZ   bool
}

func (w *writer) geometry(sb *strings.Builder, g geom.Geometry) {
	switch g := g.(type) {
	case *geom.Point:
		w.waypoint(sb, g, "wpt")
	case *geom.LineString:
		w.track(sb, g)
	case *geom.Polygon:
		for _, ring := range g.Rings() {
			w.track(sb, ring)
		}
	default:
		if m, ok := g.(geom.Multi); ok {
			for i := 0; i < m.NumGeometries(); i++ {
				w.geometry(sb, m.Geometry(i))
			}
		}
	}
}

func (w *writer) waypoint(sb *strings.Builder, p *geom.Point, tag string) {
	if p.IsEmpty() {
		return
	}
	sb.WriteByte('<')
	sb.WriteString(w.prefix)
	sb.WriteString(tag)
	sb.WriteString(` lat="`)
	sb.WriteString(formatNum(p.Y()))
	sb.WriteString(`" lon="`)
	sb.WriteString(formatNum(p.X()))
	sb.WriteString(`">`)
	if w.hasZ {
		z, _ := p.Z()
		w.open(sb, "ele")
		sb.WriteString(formatNum(z))
		w.close(sb, "ele")
	}
	w.close(sb, tag)
}

func (w *writer) track(sb *strings.Builder, l *geom.LineString) {
	w.open(sb, "trk")
	w.open(sb, "trkseg")
	for _, p := range l.Points() {
		w.waypoint(sb, p, "trkpt")
	}
	w.close(sb, "trkseg")
	w.close(sb, "trk")
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
