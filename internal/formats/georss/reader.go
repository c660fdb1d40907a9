package georss

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/internal/xmltree"
)

// Read parses a GeoRSS Simple document or feed.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}

	b := &builder{src: data}
	var geoms []geom.Geometry

	add := func(nodes []*xmltree.Node, parse func(*xmltree.Node) (geom.Geometry, error)) error {
		for _, n := range nodes {
			g, err := parse(n)
			if err != nil {
				return err
			}
			geoms = append(geoms, g)
		}
		return nil
	}
	if err := add(doc.FindAll("point"), b.point); err != nil {
		return nil, err
	}
	if err := add(doc.FindAll("line"), b.line); err != nil {
		return nil, err
	}
	if err := add(doc.FindAll("polygon"), b.polygon); err != nil {
		return nil, err
	}
	if err := add(doc.FindAll("box"), b.box); err != nil {
		return nil, err
	}

	if len(geoms) == 0 {
		return nil, errors.NewParse("georss", data, "document contains no geometry elements")
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
	return errors.NewParse("georss", b.src, fmt.Sprintf(format, args...))
}

// pairs splits coordinate text into latitude, longitude pairs.
func (b *builder) pairs(n *xmltree.Node) ([][2]float64, error) {
	fields := strings.Fields(n.Text())
	if len(fields)%2 != 0 {
		return nil, b.errorf("%s has an odd number of coordinate values", n.Name())
	}
	out := make([][2]float64, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		lat, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, b.errorf("invalid coordinate value %q", fields[i])
		}
		lon, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, b.errorf("invalid coordinate value %q", fields[i+1])
		}
		out = append(out, [2]float64{lat, lon})
	}
	return out, nil
}

// point uses the first pair and ignores any extras, matching the lenient
// readers in the wild.
func (b *builder) point(n *xmltree.Node) (geom.Geometry, error) {
	pairs, err := b.pairs(n)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return geom.NewEmptyPoint(), nil
	}
	return pairPoint(pairs[0]), nil
}

func (b *builder) line(n *xmltree.Node) (geom.Geometry, error) {
	pairs, err := b.pairs(n)
	if err != nil {
		return nil, err
	}
	return geom.NewLineString(pairPoints(pairs)...)
}

// polygon closes an unclosed ring before building, since feeds often
// leave the final pair off.
func (b *builder) polygon(n *xmltree.Node) (geom.Geometry, error) {
	pairs, err := b.pairs(n)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return geom.NewPolygon()
	}
	if pairs[0] != pairs[len(pairs)-1] {
		pairs = append(pairs, pairs[0])
	}
	ring, err := geom.NewLineString(pairPoints(pairs)...)
	if err != nil {
		return nil, err
	}
	return geom.NewPolygon(ring)
}

// box turns its south-west and north-east corners into a rectangle.
func (b *builder) box(n *xmltree.Node) (geom.Geometry, error) {
	pairs, err := b.pairs(n)
	if err != nil {
		return nil, err
	}
	if len(pairs) != 2 {
		return nil, b.errorf("box has %d corners, want 2", len(pairs))
	}
	south, west := pairs[0][0], pairs[0][1]
	north, east := pairs[1][0], pairs[1][1]
	ring, err := geom.NewLineString(
		geom.NewPoint(west, south),
		geom.NewPoint(east, south),
		geom.NewPoint(east, north),
		geom.NewPoint(west, north),
		geom.NewPoint(west, south))
	if err != nil {
		return nil, err
	}
	return geom.NewPolygon(ring)
}

func pairPoint(pair [2]float64) *geom.Point {
	return geom.NewPoint(pair[1], pair[0])
}

func pairPoints(pairs [][2]float64) []*geom.Point {
	points := make([]*geom.Point, len(pairs))
	for i, pair := range pairs {
		points[i] = pairPoint(pair)
	}
	return points
}
