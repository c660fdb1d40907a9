package osm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/internal/xmltree"
)

// Read parses an OSM XML document.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}

	b := &builder{
		src:        data,
		nodes:      map[string]*geom.Point{},
		referenced: map[string]bool{},
		consumed:   map[string]bool{},
		waysByID:   map[string]*way{},
	}
	if err := b.indexNodes(doc.FindAll("node")); err != nil {
		return nil, err
	}
	if err := b.indexWays(doc.FindAll("way")); err != nil {
		return nil, err
	}

	// Relations first so their member ways are marked consumed before
	// the standalone passes run. The harvest itself is ordered points,
	// then lines and free polygons, then relation polygons.
	relGeoms, err := b.relations(doc.FindAll("relation"))
	if err != nil {
		return nil, err
	}
	var geoms []geom.Geometry
	for _, id := range b.nodeOrder {
		if !b.referenced[id] {
			geoms = append(geoms, b.nodes[id])
		}
	}
	wayGeoms, err := b.standaloneWays()
	if err != nil {
		return nil, err
	}
	geoms = append(geoms, wayGeoms...)
	geoms = append(geoms, relGeoms...)

	if len(geoms) == 0 {
		return nil, errors.NewParse("osm", data, "document contains no geometry elements")
	}
	if g := geom.Reduce(geoms...); g != nil {
		return g, nil
	}
	return geom.NewGeometryCollection()
}

type way struct {
	id     string
	points []*geom.Point
}

type builder struct {
	src        []byte
	nodes      map[string]*geom.Point
	nodeOrder  []string
	referenced map[string]bool
	ways       []*way
	waysByID   map[string]*way
	consumed   map[string]bool
}

func (b *builder) errorf(format string, args ...any) error {
	return errors.NewParse("osm", b.src, fmt.Sprintf(format, args...))
}

func (b *builder) indexNodes(nodes []*xmltree.Node) error {
	for _, n := range nodes {
		id := n.Attr("id")
		if id == "" {
			return b.errorf("node is missing its id attribute")
		}
		lat, err := b.attrFloat(n, "node "+id, "lat")
		if err != nil {
			return err
		}
		lon, err := b.attrFloat(n, "node "+id, "lon")
		if err != nil {
			return err
		}
		if _, seen := b.nodes[id]; !seen {
			b.nodeOrder = append(b.nodeOrder, id)
		}
		b.nodes[id] = geom.NewPoint(lon, lat)
	}
	return nil
}

func (b *builder) attrFloat(n *xmltree.Node, what, name string) (float64, error) {
	raw := n.Attr(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, b.errorf("%s has missing or invalid %s attribute %q", what, name, raw)
	}
	return v, nil
}

// indexWays resolves nd refs into point runs. Refs to nodes outside the
// document are dropped.
func (b *builder) indexWays(ways []*xmltree.Node) error {
	for _, n := range ways {
		id := n.Attr("id")
		if id == "" {
			return b.errorf("way is missing its id attribute")
		}
		w := &way{id: id}
		for _, nd := range n.ChildrenNamed("nd") {
			ref := nd.Attr("ref")
			b.referenced[ref] = true
			if p, ok := b.nodes[ref]; ok {
				w.points = append(w.points, p.Clone())
			}
		}
		b.ways = append(b.ways, w)
		b.waysByID[id] = w
	}
	return nil
}

// relations assembles multipolygon and boundary relations. Member rings
// are taken in document order: an outer role starts a new shell and an
// inner role cuts a hole in the current one.
func (b *builder) relations(relations []*xmltree.Node) ([]geom.Geometry, error) {
	var geoms []geom.Geometry
	for _, n := range relations {
		if t := tagValue(n, "type"); t != "multipolygon" && t != "boundary" {
			continue
		}
		var rings [][]*geom.LineString
		for _, member := range n.ChildrenNamed("member") {
			if !strings.EqualFold(member.Attr("type"), "way") {
				continue
			}
			w, ok := b.waysByID[member.Attr("ref")]
			if !ok {
				continue
			}
			b.consumed[w.id] = true
			if len(w.points) == 0 {
				continue
			}
			ring, err := b.closedRing(w)
			if err != nil {
				return nil, err
			}
			role := member.Attr("role")
			if strings.EqualFold(role, "inner") {
				if len(rings) == 0 {
					return nil, b.errorf("relation %s has an inner ring before any outer ring", n.Attr("id"))
				}
				rings[len(rings)-1] = append(rings[len(rings)-1], ring)
			} else {
				rings = append(rings, []*geom.LineString{ring})
			}
		}
		if len(rings) == 0 {
			continue
		}
		polygons := make([]*geom.Polygon, len(rings))
		for i, shell := range rings {
			p, err := geom.NewPolygon(shell...)
			if err != nil {
				return nil, err
			}
			polygons[i] = p
		}
		if len(polygons) == 1 {
			geoms = append(geoms, polygons[0])
			continue
		}
		mp, err := geom.NewMultiPolygon(polygons...)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, mp)
	}
	return geoms, nil
}

func (b *builder) standaloneWays() ([]geom.Geometry, error) {
	var geoms []geom.Geometry
	for _, w := range b.ways {
		if b.consumed[w.id] || len(w.points) == 0 {
			continue
		}
		if isClosed(w.points) {
			ring, err := b.closedRing(w)
			if err != nil {
				return nil, err
			}
			p, err := geom.NewPolygon(ring)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, p)
			continue
		}
		l, err := geom.NewLineString(w.points...)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, l)
	}
	return geoms, nil
}

// closedRing closes the way if its ends do not meet.
func (b *builder) closedRing(w *way) (*geom.LineString, error) {
	points := w.points
	if !isClosed(points) {
		points = append(points[:len(points):len(points)], points[0].Clone())
	}
	return geom.NewLineString(points...)
}

func isClosed(points []*geom.Point) bool {
	return len(points) >= 4 && points[0].Equals(points[len(points)-1])
}

func tagValue(n *xmltree.Node, key string) string {
	for _, tag := range n.ChildrenNamed("tag") {
		if strings.EqualFold(tag.Attr("k"), key) {
			return tag.Attr("v")
		}
	}
	return ""
}
