package kml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/internal/xmltree"
)

// Read parses a KML document or bare geometry fragment.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}

	b := &builder{src: data}
	var geoms []geom.Geometry

	if placemarks := doc.FindAll("Placemark"); len(placemarks) > 0 {
		for _, pm := range placemarks {
			for _, child := range pm.Children() {
				g, ok, err := b.geometry(child, 0)
				if err != nil {
					return nil, err
				}
				if ok {
					geoms = append(geoms, g)
				}
			}
		}
	} else if root := doc.Root(); root != nil {
		g, ok, err := b.geometry(root, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			geoms = append(geoms, g)
		}
	}

	if len(geoms) == 0 {
		return nil, errors.NewParse("kml", data, "document contains no geometry elements")
	}
	if g := geom.Reduce(geoms...); g != nil {
		return g, nil
	}
	return geom.NewGeometryCollection()
}

type builder struct {
	src []byte
}

func (b *builder) errorf(format string, args ...any) error {
	return errors.NewParse("kml", b.src, fmt.Sprintf(format, args...))
}

// geometry parses a single KML geometry element. The second return is
// false when the element is not a geometry tag at all, so callers can
// skip the name, description and styling children of a Placemark.
func (b *builder) geometry(n *xmltree.Node, depth int) (geom.Geometry, bool, error) {
	if depth > maxNesting {
		return nil, false, b.errorf("geometry nesting exceeds %d levels", maxNesting)
	}
	switch strings.ToLower(n.Name()) {
	case "point":
		g, err := b.point(n)
		return g, true, err
	case "linestring":
		g, err := b.lineString(n)
		return g, true, err
	case "polygon":
		g, err := b.polygon(n)
		return g, true, err
	case "multigeometry":
		g, err := b.multiGeometry(n, depth)
		return g, true, err
	}
	return nil, false, nil
}

func (b *builder) point(n *xmltree.Node) (geom.Geometry, error) {
	tuples, err := b.tuples(n.FirstChildNamed("coordinates"))
	if err != nil {
		return nil, err
	}
	if len(tuples) == 0 {
		return geom.NewEmptyPoint(), nil
	}
	return tuplePoint(tuples[0]), nil
}

func (b *builder) lineString(n *xmltree.Node) (geom.Geometry, error) {
	tuples, err := b.tuples(n.FirstChildNamed("coordinates"))
	if err != nil {
		return nil, err
	}
	return geom.NewLineString(tuplePoints(tuples)...)
}

func (b *builder) polygon(n *xmltree.Node) (geom.Geometry, error) {
	outer := n.First("outerBoundaryIs")
	inners := n.FindAll("innerBoundaryIs")
	if outer == nil {
		if len(inners) > 0 {
			return nil, b.errorf("polygon has inner boundaries but no outer boundary")
		}
		return geom.NewPolygon()
	}
	rings := make([]*geom.LineString, 0, len(inners)+1)
	ring, err := b.boundaryRing(outer)
	if err != nil {
		return nil, err
	}
	rings = append(rings, ring)
	for _, inner := range inners {
		ring, err := b.boundaryRing(inner)
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	return geom.NewPolygon(rings...)
}

func (b *builder) boundaryRing(n *xmltree.Node) (*geom.LineString, error) {
	tuples, err := b.tuples(n.First("coordinates"))
	if err != nil {
		return nil, err
	}
	return geom.NewLineString(tuplePoints(tuples)...)
}

// multiGeometry reduces its members to their natural container, so a
// MultiGeometry of uniform kinds reads back as the matching Multi
// geometry rather than a plain collection.
func (b *builder) multiGeometry(n *xmltree.Node, depth int) (geom.Geometry, error) {
	var members []geom.Geometry
	for _, child := range n.Children() {
		g, ok, err := b.geometry(child, depth+1)
		if err != nil {
			return nil, err
		}
		if ok {
			members = append(members, g)
		}
	}
	if g := geom.Reduce(members...); g != nil {
		return g, nil
	}
	return geom.NewGeometryCollection()
}

// tuples splits a coordinates text block into numeric tuples. Tuples are
// separated by whitespace; values within a tuple by commas. A fourth or
// later value in a tuple is ignored.
func (b *builder) tuples(n *xmltree.Node) ([][]float64, error) {
	if n == nil {
		return nil, nil
	}
	fields := strings.Fields(n.Text())
	out := make([][]float64, 0, len(fields))
	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) < 2 {
			return nil, b.errorf("coordinate tuple %q needs a longitude and a latitude", field)
		}
		if len(parts) > 3 {
			parts = parts[:3]
		}
		tuple := make([]float64, 0, 3)
		for _, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, b.errorf("invalid coordinate value %q", part)
			}
			tuple = append(tuple, v)
		}
		out = append(out, tuple)
	}
	return out, nil
}

func tuplePoint(tuple []float64) *geom.Point {
	if len(tuple) == 3 {
		return geom.NewPointZ(tuple[0], tuple[1], tuple[2])
	}
	return geom.NewPoint(tuple[0], tuple[1])
}

func tuplePoints(tuples [][]float64) []*geom.Point {
	points := make([]*geom.Point, 0, len(tuples))
	for _, tuple := range tuples {
		points = append(points, tuplePoint(tuple))
	}
	return points
}
