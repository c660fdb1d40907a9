package wkt

import (
	"fmt"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Read parses a well-known-text geometry, with or without the SRID=
// prefix.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, errors.NewParse(c.tag(), data, "empty input")
	}
	if depth := maxParenDepth(text); depth > maxNesting {
		return nil, errors.NewParse(c.tag(), data,
			fmt.Sprintf("nesting exceeds %d levels", maxNesting))
	}

	parsed, err := wktParser.ParseString("", text)
	if err != nil {
		perr := errors.NewParse(c.tag(), data, "invalid syntax")
		perr.Err = err
		return nil, perr
	}

	b := &builder{src: data, tag: c.tag()}
	g, err := b.node(parsed.Node)
	if err != nil {
		return nil, err
	}
	if parsed.SRID != nil && parsed.SRID.Value != 0 {
		g.SetSRID(parsed.SRID.Value)
	}
	return g, nil
}

// maxParenDepth measures parenthesis nesting without recursion.
func maxParenDepth(s string) int {
	depth, deepest := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return deepest
}

// builder turns the parsed grammar tree into geometry values.
type builder struct {
	src []byte
	tag string
}

func (b *builder) errorf(format string, args ...any) error {
	return errors.NewParse(b.tag, b.src, fmt.Sprintf(format, args...))
}

// geometry keywords, longest first so attached suffixes split correctly
// ("MULTIPOINTZM" must not match "POINT").
var keywordTable = []struct {
	name string
	kind geom.Type
}{
	{"GEOMETRYCOLLECTION", geom.TypeGeometryCollection},
	{"MULTILINESTRING", geom.TypeMultiLineString},
	{"MULTIPOLYGON", geom.TypeMultiPolygon},
	{"MULTIPOINT", geom.TypeMultiPoint},
	{"LINESTRING", geom.TypeLineString},
	{"POLYGON", geom.TypePolygon},
	{"POINT", geom.TypePoint},
}

// header resolves a node's keyword and bare words into a kind, dimension
// flags and the EMPTY marker.
func (b *builder) header(n *wktNode) (kind geom.Type, hasZ, hasM, empty bool, err error) {
	kw := strings.ToUpper(n.Keyword)
	suffix := ""
	for _, entry := range keywordTable {
		if strings.HasPrefix(kw, entry.name) {
			kind = entry.kind
			suffix = kw[len(entry.name):]
			break
		}
	}
	if kind == geom.NoType {
		return 0, false, false, false, b.errorf("unknown geometry keyword %q", n.Keyword)
	}
	if suffix != "" {
		if hasZ, hasM, err = b.dims(suffix); err != nil {
			return 0, false, false, false, err
		}
	}
	for i, word := range n.Words {
		w := strings.ToUpper(word)
		if w == "EMPTY" {
			if i != len(n.Words)-1 {
				return 0, false, false, false, b.errorf("unexpected %q after EMPTY", n.Words[i+1])
			}
			empty = true
			continue
		}
		if hasZ || hasM {
			return 0, false, false, false, b.errorf("duplicate dimension suffix %q", word)
		}
		if hasZ, hasM, err = b.dims(w); err != nil {
			return 0, false, false, false, err
		}
	}
	return kind, hasZ, hasM, empty, nil
}

func (b *builder) dims(suffix string) (hasZ, hasM bool, err error) {
	switch suffix {
	case "Z":
		return true, false, nil
	case "M":
		return false, true, nil
	case "ZM":
		return true, true, nil
	default:
		return false, false, b.errorf("unknown dimension suffix %q", suffix)
	}
}

// node builds one typed geometry.
func (b *builder) node(n *wktNode) (geom.Geometry, error) {
	kind, hasZ, hasM, empty, err := b.header(n)
	if err != nil {
		return nil, err
	}
	if empty {
		if n.Body != nil {
			return nil, b.errorf("EMPTY %s cannot carry coordinates", kind)
		}
		return b.empty(kind)
	}
	if n.Body == nil {
		return nil, b.errorf("%s is missing its coordinate body", kind)
	}

	items := n.Body.Items
	switch kind {
	case geom.TypePoint:
		if len(items) != 1 || items[0].Coords == nil {
			return nil, b.errorf("POINT expects a single coordinate tuple")
		}
		return b.point(items[0].Coords, hasZ, hasM)
	case geom.TypeLineString:
		return b.line(items, hasZ, hasM)
	case geom.TypePolygon:
		return b.polygon(items, hasZ, hasM)
	case geom.TypeMultiPoint:
		return b.multiPoint(items, hasZ, hasM)
	case geom.TypeMultiLineString:
		return b.multiLine(items, hasZ, hasM)
	case geom.TypeMultiPolygon:
		return b.multiPolygon(items, hasZ, hasM)
	default:
		return b.collection(items)
	}
}

func (b *builder) empty(kind geom.Type) (geom.Geometry, error) {
	switch kind {
	case geom.TypePoint:
		return geom.NewEmptyPoint(), nil
	case geom.TypeLineString:
		return geom.NewLineString()
	case geom.TypePolygon:
		return geom.NewPolygon()
	case geom.TypeMultiPoint:
		return geom.NewMultiPoint()
	case geom.TypeMultiLineString:
		return geom.NewMultiLineString()
	case geom.TypeMultiPolygon:
		return geom.NewMultiPolygon()
	default:
		return geom.NewGeometryCollection()
	}
}

// point builds a Point from a coordinate tuple. An untagged three-number
// tuple is Z; an untagged four-number tuple is ZM.
func (b *builder) point(coords []float64, hasZ, hasM bool) (*geom.Point, error) {
	switch len(coords) {
	case 2:
		if hasZ || hasM {
			return nil, b.errorf("tuple has 2 values but a dimension suffix was given")
		}
		return geom.NewPoint(coords[0], coords[1]), nil
	case 3:
		if hasZ && hasM {
			return nil, b.errorf("ZM tuple needs 4 values, got 3")
		}
		if hasM {
			return geom.NewPointM(coords[0], coords[1], coords[2]), nil
		}
		return geom.NewPointZ(coords[0], coords[1], coords[2]), nil
	case 4:
		if (hasZ && !hasM) || (hasM && !hasZ) {
			return nil, b.errorf("tuple has 4 values but a single-dimension suffix was given")
		}
		return geom.NewPointZM(coords[0], coords[1], coords[2], coords[3]), nil
	default:
		return nil, b.errorf("coordinate tuple has %d values, want 2 to 4", len(coords))
	}
}

// line builds a LineString from items that must all be coordinate tuples.
func (b *builder) line(items []*wktItem, hasZ, hasM bool) (*geom.LineString, error) {
	points := make([]*geom.Point, len(items))
	for i, item := range items {
		if item.Coords == nil {
			return nil, b.errorf("linestring member %d is not a coordinate tuple", i)
		}
		p, err := b.point(item.Coords, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return geom.NewLineString(points...)
}

// polygon builds a Polygon from parenthesized ring groups. A bare EMPTY
// member is an empty ring.
func (b *builder) polygon(items []*wktItem, hasZ, hasM bool) (*geom.Polygon, error) {
	rings := make([]*geom.LineString, len(items))
	for i, item := range items {
		switch {
		case item.Sub != nil:
			ring, err := b.line(item.Sub.Items, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			rings[i] = ring
		case b.isEmptyNode(item):
			ring, err := geom.NewLineString()
			if err != nil {
				return nil, err
			}
			rings[i] = ring
		default:
			return nil, b.errorf("polygon ring %d is not a parenthesized group", i)
		}
	}
	return geom.NewPolygon(rings...)
}

// multiPoint accepts bare tuples, parenthesized single tuples and EMPTY
// members.
func (b *builder) multiPoint(items []*wktItem, hasZ, hasM bool) (*geom.MultiPoint, error) {
	points := make([]*geom.Point, len(items))
	for i, item := range items {
		switch {
		case item.Coords != nil:
			p, err := b.point(item.Coords, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			points[i] = p
		case item.Sub != nil && len(item.Sub.Items) == 1 && item.Sub.Items[0].Coords != nil:
			p, err := b.point(item.Sub.Items[0].Coords, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			points[i] = p
		case b.isEmptyNode(item):
			points[i] = geom.NewEmptyPoint()
		default:
			return nil, b.errorf("multipoint member %d is not a coordinate tuple", i)
		}
	}
	return geom.NewMultiPoint(points...)
}

func (b *builder) multiLine(items []*wktItem, hasZ, hasM bool) (*geom.MultiLineString, error) {
	lines := make([]*geom.LineString, len(items))
	for i, item := range items {
		switch {
		case item.Sub != nil:
			l, err := b.line(item.Sub.Items, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			lines[i] = l
		case b.isEmptyNode(item):
			l, err := geom.NewLineString()
			if err != nil {
				return nil, err
			}
			lines[i] = l
		default:
			return nil, b.errorf("multilinestring member %d is not a parenthesized group", i)
		}
	}
	return geom.NewMultiLineString(lines...)
}

func (b *builder) multiPolygon(items []*wktItem, hasZ, hasM bool) (*geom.MultiPolygon, error) {
	polygons := make([]*geom.Polygon, len(items))
	for i, item := range items {
		switch {
		case item.Sub != nil:
			p, err := b.polygon(item.Sub.Items, hasZ, hasM)
			if err != nil {
				return nil, err
			}
			polygons[i] = p
		case b.isEmptyNode(item):
			p, err := geom.NewPolygon()
			if err != nil {
				return nil, err
			}
			polygons[i] = p
		default:
			return nil, b.errorf("multipolygon member %d is not a parenthesized group", i)
		}
	}
	return geom.NewMultiPolygon(polygons...)
}

// collection builds a GeometryCollection from typed member nodes.
func (b *builder) collection(items []*wktItem) (*geom.GeometryCollection, error) {
	geoms := make([]geom.Geometry, len(items))
	for i, item := range items {
		if item.Node == nil {
			return nil, b.errorf("collection member %d is not a typed geometry", i)
		}
		g, err := b.node(item.Node)
		if err != nil {
			return nil, err
		}
		geoms[i] = g
	}
	return geom.NewGeometryCollection(geoms...)
}

// isEmptyNode reports whether an item is the bare word EMPTY.
func (b *builder) isEmptyNode(item *wktItem) bool {
	return item.Node != nil &&
		strings.EqualFold(item.Node.Keyword, "EMPTY") &&
		len(item.Node.Words) == 0 &&
		item.Node.Body == nil
}
