package osm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes a geometry as an OSM XML document.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("osm", "cannot encode a nil geometry")
	}
	w := &writer{nodeIDs: map[[2]float64]int{}, nextID: -1}
	w.geometry(g)

	var sb strings.Builder
	sb.WriteString(`<osm version="0.6" generator="geomkit">`)
	sb.WriteString(w.nodes.String())
	sb.WriteString(w.ways.String())
	sb.WriteString(w.relations.String())
	sb.WriteString(`</osm>`)
	return []byte(sb.String()), nil
}

// writer accumulates the three element layers separately so nodes always
// precede the ways that reference them, and ways the relations.
type writer struct {
	nodes     strings.Builder
	ways      strings.Builder
	relations strings.Builder
	nodeIDs   map[[2]float64]int
	nextID    int
}

func (w *writer) claim() int {
	id := w.nextID
	w.nextID--
	return id
}

func (w *writer) geometry(g geom.Geometry) {
	switch g := g.(type) {
	case *geom.Point:
		if !g.IsEmpty() {
			w.nodeRef(g)
		}
	case *geom.LineString:
		if g.NumPoints() > 0 {
			w.way(g)
		}
	case *geom.Polygon:
		w.polygon(g)
	case *geom.MultiPolygon:
		if g.NumGeometries() > 0 {
			w.relation(g.Polygons())
		}
	default:
		if m, ok := g.(geom.Multi); ok {
			for i := 0; i < m.NumGeometries(); i++ {
				w.geometry(m.Geometry(i))
			}
		}
	}
}

// polygon writes a plain ring as a closed way and anything with holes as
// a multipolygon relation.
func (w *writer) polygon(p *geom.Polygon) {
	switch p.NumRings() {
	case 0:
	case 1:
		w.way(p.ExteriorRing())
	default:
		w.relation([]*geom.Polygon{p})
	}
}

func (w *writer) relation(polygons []*geom.Polygon) {
	type memberRef struct {
		id   int
		role string
	}
	var members []memberRef
	for _, p := range polygons {
		for i, ring := range p.Rings() {
			role := "inner"
			if i == 0 {
				role = "outer"
			}
			members = append(members, memberRef{id: w.way(ring), role: role})
		}
	}
	fmt.Fprintf(&w.relations, `<relation id="%d"><tag k="type" v="multipolygon"/>`, w.claim())
	for _, m := range members {
		fmt.Fprintf(&w.relations, `<member type="way" ref="%d" role="%s"/>`, m.id, m.role)
	}
	w.relations.WriteString(`</relation>`)
}

func (w *writer) way(l *geom.LineString) int {
	refs := make([]int, 0, l.NumPoints())
	for _, p := range l.Points() {
		refs = append(refs, w.nodeRef(p))
	}
	id := w.claim()
	fmt.Fprintf(&w.ways, `<way id="%d">`, id)
	for _, ref := range refs {
		fmt.Fprintf(&w.ways, `<nd ref="%d"/>`, ref)
	}
	w.ways.WriteString(`</way>`)
	return id
}

// nodeRef returns the node id for a coordinate, emitting the node on
// first use. A ring's repeated endpoint resolves to the same node, which
// is what closes the way.
func (w *writer) nodeRef(p *geom.Point) int {
	key := [2]float64{p.X(), p.Y()}
	if id, ok := w.nodeIDs[key]; ok {
		return id
	}
	id := w.claim()
	w.nodeIDs[key] = id
	fmt.Fprintf(&w.nodes, `<node id="%d" lat="%s" lon="%s"/>`, id, formatNum(p.Y()), formatNum(p.X()))
	return id
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
