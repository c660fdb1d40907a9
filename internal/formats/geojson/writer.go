package geojson

import (
	"encoding/json"
	"strconv"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write serializes g. A geometry carrying a data payload becomes a
// Feature, and a collection with payload-bearing members becomes a
// FeatureCollection; everything else is a plain geometry document. A
// non-zero SRID is recorded as a named crs member.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("json", "cannot encode nil geometry")
	}

	var out *objectOut
	var err error
	switch {
	case wantsFeatureCollection(g):
		out, err = featureCollectionObject(g.(*geom.GeometryCollection))
	case g.Data() != nil:
		out, err = featureObject(g)
	default:
		out, err = geometryObject(g)
	}
	if err != nil {
		return nil, err
	}

	if srid := g.SRID(); srid != 0 {
		out.CRS = &refSystem{
			Type:       "name",
			Properties: map[string]any{"name": "EPSG:" + strconv.Itoa(srid)},
		}
	}
	return json.Marshal(out)
}

// wantsFeatureCollection reports whether g is a collection with at least
// one payload-bearing member. Payloads cannot ride on members of a plain
// GeometryCollection, so such a tree serializes as a FeatureCollection.
func wantsFeatureCollection(g geom.Geometry) bool {
	gc, ok := g.(*geom.GeometryCollection)
	if !ok {
		return false
	}
	for _, member := range gc.Geometries() {
		if member.Data() != nil {
			return true
		}
	}
	return false
}

func featureCollectionObject(gc *geom.GeometryCollection) (*objectOut, error) {
	features := make([]*objectOut, gc.NumGeometries())
	for i, member := range gc.Geometries() {
		f, err := featureObject(member)
		if err != nil {
			return nil, err
		}
		features[i] = f
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return &objectOut{Type: "FeatureCollection", Features: raw}, nil
}

func featureObject(g geom.Geometry) (*objectOut, error) {
	inner, err := geometryObject(g)
	if err != nil {
		return nil, err
	}
	geomRaw, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	props := json.RawMessage("null")
	if data := g.Data(); data != nil {
		props, err = json.Marshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding feature properties")
		}
	}
	return &objectOut{Type: "Feature", Geometry: geomRaw, Properties: props}, nil
}

func geometryObject(g geom.Geometry) (*objectOut, error) {
	hasZ := g.Is3D()
	var coords any
	switch t := g.(type) {
	case *geom.Point:
		coords = pointTuple(t, hasZ)
	case *geom.LineString:
		coords = lineTuples(t.Points(), hasZ)
	case *geom.Polygon:
		coords = polygonRings(t, hasZ)
	case *geom.MultiPoint:
		tuples := make([][]float64, 0, t.NumGeometries())
		for _, p := range t.Points() {
			tuples = append(tuples, pointTuple(p, hasZ))
		}
		coords = tuples
	case *geom.MultiLineString:
		lines := make([][][]float64, 0, t.NumGeometries())
		for _, l := range t.LineStrings() {
			lines = append(lines, lineTuples(l.Points(), hasZ))
		}
		coords = lines
	case *geom.MultiPolygon:
		polys := make([][][][]float64, 0, t.NumGeometries())
		for _, p := range t.Polygons() {
			polys = append(polys, polygonRings(p, hasZ))
		}
		coords = polys
	case *geom.GeometryCollection:
		members := make([]*objectOut, 0, t.NumGeometries())
		for _, member := range t.Geometries() {
			obj, err := geometryObject(member)
			if err != nil {
				return nil, err
			}
			members = append(members, obj)
		}
		raw, err := json.Marshal(members)
		if err != nil {
			return nil, err
		}
		return &objectOut{Type: "GeometryCollection", Geometries: raw}, nil
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, err
	}
	return &objectOut{Type: g.GeomType().String(), Coordinates: raw}, nil
}

// pointTuple renders a position: XY, XYZ for three-dimensional trees,
// and [] for the empty point. The format has no measure slot, so M is
// dropped.
func pointTuple(p *geom.Point, hasZ bool) []float64 {
	if p.IsEmpty() {
		return []float64{}
	}
	tuple := []float64{p.X(), p.Y()}
	if hasZ {
		z, _ := p.Z()
		tuple = append(tuple, z)
	}
	return tuple
}

func lineTuples(points []*geom.Point, hasZ bool) [][]float64 {
	tuples := make([][]float64, 0, len(points))
	for _, p := range points {
		tuples = append(tuples, pointTuple(p, hasZ))
	}
	return tuples
}

func polygonRings(p *geom.Polygon, hasZ bool) [][][]float64 {
	rings := make([][][]float64, 0, p.NumRings())
	for _, ring := range p.Rings() {
		rings = append(rings, lineTuples(ring.Points(), hasZ))
	}
	return rings
}
