package geojson

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Read parses one GeoJSON document: a geometry, a Feature, or a
// FeatureCollection.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.NewParse("json", data, "invalid JSON document")
	}
	b := &builder{src: data}
	g, err := b.object(&obj, 0)
	if err != nil {
		return nil, err
	}
	if srid := obj.CRS.srid(); srid != 0 {
		g.SetSRID(srid)
	}
	return g, nil
}

// srid extracts an EPSG code from a named reference system. Both the
// "EPSG:4326" and "urn:ogc:def:crs:EPSG::4326" spellings occur in the
// wild.
func (r *refSystem) srid() int {
	if r == nil {
		return 0
	}
	name, _ := r.Properties["name"].(string)
	name = strings.TrimPrefix(name, "urn:ogc:def:crs:")
	name = strings.ReplaceAll(name, "::", ":")
	if rest, ok := strings.CutPrefix(name, "EPSG:"); ok {
		if srid, err := strconv.Atoi(rest); err == nil {
			return srid
		}
	}
	return 0
}

type builder struct {
	src []byte
}

func (b *builder) errorf(format string, args ...any) error {
	return errors.NewParse("json", b.src, fmt.Sprintf(format, args...))
}

func (b *builder) object(obj *object, depth int) (geom.Geometry, error) {
	if depth > maxNesting {
		return nil, b.errorf("object nesting exceeds %d levels", maxNesting)
	}
	switch obj.Type {
	case "Point":
		var tuple []float64
		if err := b.coords(obj, &tuple); err != nil {
			return nil, err
		}
		return b.point(tuple)
	case "LineString":
		var tuples [][]float64
		if err := b.coords(obj, &tuples); err != nil {
			return nil, err
		}
		return b.lineString(tuples)
	case "Polygon":
		var rings [][][]float64
		if err := b.coords(obj, &rings); err != nil {
			return nil, err
		}
		return b.polygon(rings)
	case "MultiPoint":
		var tuples [][]float64
		if err := b.coords(obj, &tuples); err != nil {
			return nil, err
		}
		points := make([]*geom.Point, len(tuples))
		for i, tuple := range tuples {
			p, err := b.point(tuple)
			if err != nil {
				return nil, err
			}
			points[i] = p
		}
		return geom.NewMultiPoint(points...)
	case "MultiLineString":
		var lines [][][]float64
		if err := b.coords(obj, &lines); err != nil {
			return nil, err
		}
		members := make([]*geom.LineString, len(lines))
		for i, tuples := range lines {
			l, err := b.lineString(tuples)
			if err != nil {
				return nil, err
			}
			members[i] = l
		}
		return geom.NewMultiLineString(members...)
	case "MultiPolygon":
		var polys [][][][]float64
		if err := b.coords(obj, &polys); err != nil {
			return nil, err
		}
		members := make([]*geom.Polygon, len(polys))
		for i, rings := range polys {
			p, err := b.polygon(rings)
			if err != nil {
				return nil, err
			}
			members[i] = p
		}
		return geom.NewMultiPolygon(members...)
	case "GeometryCollection":
		members := make([]geom.Geometry, len(obj.Geometries))
		for i, sub := range obj.Geometries {
			g, err := b.object(sub, depth+1)
			if err != nil {
				return nil, err
			}
			members[i] = g
		}
		return geom.NewGeometryCollection(members...)
	case "Feature":
		if obj.Geometry == nil {
			return nil, b.errorf("feature has no geometry member")
		}
		g, err := b.object(obj.Geometry, depth+1)
		if err != nil {
			return nil, err
		}
		if obj.Properties != nil {
			g.SetData(obj.Properties)
		}
		return g, nil
	case "FeatureCollection":
		members := make([]geom.Geometry, len(obj.Features))
		for i, feature := range obj.Features {
			g, err := b.object(feature, depth+1)
			if err != nil {
				return nil, err
			}
			members[i] = g
		}
		// The natural container for the features: a Multi when they share
		// a kind, a collection otherwise.
		if g := geom.Reduce(members...); g != nil {
			return g, nil
		}
		return geom.NewGeometryCollection()
	case "":
		return nil, b.errorf("document has no type member")
	default:
		return nil, b.errorf("unknown GeoJSON type %q", obj.Type)
	}
}

func (b *builder) coords(obj *object, target any) error {
	if obj.Coordinates == nil {
		return b.errorf("%s has no coordinates member", obj.Type)
	}
	if err := json.Unmarshal(obj.Coordinates, target); err != nil {
		return b.errorf("%s coordinates have the wrong shape", obj.Type)
	}
	return nil
}

// point maps a position to a Point: two values are XY, three XYZ, four
// XYZM, and an empty array is the empty point.
func (b *builder) point(tuple []float64) (*geom.Point, error) {
	switch len(tuple) {
	case 0:
		return geom.NewEmptyPoint(), nil
	case 2:
		return geom.NewPoint(tuple[0], tuple[1]), nil
	case 3:
		return geom.NewPointZ(tuple[0], tuple[1], tuple[2]), nil
	case 4:
		return geom.NewPointZM(tuple[0], tuple[1], tuple[2], tuple[3]), nil
	default:
		return nil, b.errorf("position has %d values, want 2 to 4", len(tuple))
	}
}

func (b *builder) lineString(tuples [][]float64) (*geom.LineString, error) {
	points := make([]*geom.Point, len(tuples))
	for i, tuple := range tuples {
		p, err := b.point(tuple)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return geom.NewLineString(points...)
}

func (b *builder) polygon(rings [][][]float64) (*geom.Polygon, error) {
	members := make([]*geom.LineString, len(rings))
	for i, tuples := range rings {
		ring, err := b.lineString(tuples)
		if err != nil {
			return nil, err
		}
		members[i] = ring
	}
	return geom.NewPolygon(members...)
}
