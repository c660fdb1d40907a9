package georss

import (
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes a geometry as GeoRSS Simple tags. An optional first arg
// is used as a namespace prefix, so Write(g, "georss") emits
// <georss:point> instead of <point>.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("georss", "cannot encode a nil geometry")
	}
	w := &writer{}
	if len(args) > 0 && args[0] != "" {
		w.prefix = args[0] + ":"
	}
	var sb strings.Builder
	w.geometry(&sb, g)
	return []byte(sb.String()), nil
}

type writer struct {
	prefix string
}

func (w *writer) geometry(sb *strings.Builder, g geom.Geometry) {
	switch g := g.(type) {
	case *geom.Point:
		w.open(sb, "point")
		if !g.IsEmpty() {
			w.pair(sb, g)
		}
		w.close(sb, "point")
	case *geom.LineString:
		w.open(sb, "line")
		w.pairs(sb, g)
		w.close(sb, "line")
	case *geom.Polygon:
		// Only the exterior ring has a representation; holes are dropped.
		w.open(sb, "polygon")
		if ring := g.ExteriorRing(); ring != nil {
			w.pairs(sb, ring)
		}
		w.close(sb, "polygon")
	default:
		if m, ok := g.(geom.Multi); ok {
			for i := 0; i < m.NumGeometries(); i++ {
				w.geometry(sb, m.Geometry(i))
			}
		}
	}
}

func (w *writer) pairs(sb *strings.Builder, l *geom.LineString) {
	for i, p := range l.Points() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		w.pair(sb, p)
	}
}

// pair renders one latitude longitude pair, Y before X.
func (w *writer) pair(sb *strings.Builder, p *geom.Point) {
	sb.WriteString(formatNum(p.Y()))
	sb.WriteByte(' ')
	sb.WriteString(formatNum(p.X()))
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
