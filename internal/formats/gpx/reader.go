package gpx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/internal/xmltree"
)

// Read parses a GPX document.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}

	b := &builder{src: data}
	var geoms []geom.Geometry

	for _, wpt := range doc.FindAll("wpt") {
		p, err := b.point(wpt, "wpt")
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, p)
	}
	for _, trk := range doc.FindAll("trk") {
		for _, seg := range trk.FindAll("trkseg") {
			l, err := b.lineString(seg, "trkpt")
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, l)
		}
	}
	for _, rte := range doc.FindAll("rte") {
		l, err := b.lineString(rte, "rtept")
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, l)
	}

	if len(geoms) == 0 {
		return nil, errors.NewParse("gpx", data, "document contains no geometry elements")
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
	return errors.NewParse("gpx", b.src, fmt.Sprintf(format, args...))
}

// point reads one wpt, trkpt or rtept element. Longitude maps to X and
// latitude to Y.
func (b *builder) point(n *xmltree.Node, tag string) (*geom.Point, error) {
	lat, err := b.attrFloat(n, tag, "lat")
	if err != nil {
		return nil, err
	}
	lon, err := b.attrFloat(n, tag, "lon")
	if err != nil {
		return nil, err
	}
	if ele := n.FirstChildNamed("ele"); ele != nil {
		text := strings.TrimSpace(ele.Text())
		z, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, b.errorf("%s has invalid ele value %q", tag, text)
		}
		return geom.NewPointZ(lon, lat, z), nil
	}
	return geom.NewPoint(lon, lat), nil
}

func (b *builder) attrFloat(n *xmltree.Node, tag, name string) (float64, error) {
	raw := n.Attr(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, b.errorf("%s has missing or invalid %s attribute %q", tag, name, raw)
	}
	return v, nil
}

func (b *builder) lineString(n *xmltree.Node, tag string) (*geom.LineString, error) {
	nodes := n.ChildrenNamed(tag)
	points := make([]*geom.Point, 0, len(nodes))
	for _, node := range nodes {
		p, err := b.point(node, tag)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return geom.NewLineString(points...)
}
