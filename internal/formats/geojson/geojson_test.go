package geojson

import (
	"strings"
	"testing"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

func read(t *testing.T, doc string) geom.Geometry {
	t.Helper()
	g, err := (&Codec{}).Read([]byte(doc))
	if err != nil {
		t.Fatalf("Read(%s) failed: %v", doc, err)
	}
	return g
}

func TestReadPoint(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		wantZ bool
		wantM bool
	}{
		{"xy", `{"type":"Point","coordinates":[1,2]}`, false, false},
		{"xyz", `{"type":"Point","coordinates":[1,2,3]}`, true, false},
		{"xyzm", `{"type":"Point","coordinates":[1,2,3,4]}`, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := read(t, tt.doc).(*geom.Point)
			if p.X() != 1 || p.Y() != 2 {
				t.Errorf("point = (%v, %v), want (1, 2)", p.X(), p.Y())
			}
			if p.Is3D() != tt.wantZ || p.IsMeasured() != tt.wantM {
				t.Errorf("dims = (%v, %v), want (%v, %v)", p.Is3D(), p.IsMeasured(), tt.wantZ, tt.wantM)
			}
		})
	}
}

func TestReadEmptyPoint(t *testing.T) {
	p := read(t, `{"type":"Point","coordinates":[]}`).(*geom.Point)
	if !p.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
}

func TestReadPolygonWithHole(t *testing.T) {
	doc := `{"type":"Polygon","coordinates":[
		[[0,0],[4,0],[4,4],[0,4],[0,0]],
		[[1,1],[2,1],[2,2],[1,2],[1,1]]]}`
	p := read(t, doc).(*geom.Polygon)
	if p.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2", p.NumRings())
	}
	if a := p.Area(); a != 15 {
		t.Errorf("Area() = %v, want 15", a)
	}
}

func TestReadMultiKinds(t *testing.T) {
	tests := []struct {
		doc  string
		kind geom.Type
		n    int
	}{
		{`{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`, geom.TypeMultiPoint, 2},
		{`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3]]]}`, geom.TypeMultiLineString, 2},
		{`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,1],[0,0]]]]}`, geom.TypeMultiPolygon, 1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			g := read(t, tt.doc)
			if g.GeomType() != tt.kind {
				t.Fatalf("GeomType() = %v, want %v", g.GeomType(), tt.kind)
			}
			m := g.(geom.Multi)
			if m.NumGeometries() != tt.n {
				t.Errorf("NumGeometries() = %d, want %d", m.NumGeometries(), tt.n)
			}
		})
	}
}

func TestReadGeometryCollection(t *testing.T) {
	doc := `{"type":"GeometryCollection","geometries":[
		{"type":"Point","coordinates":[1,2]},
		{"type":"LineString","coordinates":[[3,4],[5,6]]}]}`
	gc := read(t, doc).(*geom.GeometryCollection)
	if gc.NumGeometries() != 2 {
		t.Fatalf("NumGeometries() = %d, want 2", gc.NumGeometries())
	}
	if gc.Geometries()[1].GeomType() != geom.TypeLineString {
		t.Errorf("member 1 = %v, want LineString", gc.Geometries()[1].GeomType())
	}
}

func TestReadCRS(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"short name", `{"type":"Point","coordinates":[1,2],"crs":{"type":"name","properties":{"name":"EPSG:4326"}}}`},
		{"urn name", `{"type":"Point","coordinates":[1,2],"crs":{"type":"name","properties":{"name":"urn:ogc:def:crs:EPSG::4326"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := read(t, tt.doc)
			if g.SRID() != 4326 {
				t.Errorf("SRID() = %d, want 4326", g.SRID())
			}
		})
	}
}

func TestReadFeature(t *testing.T) {
	doc := `{"type":"Feature",
		"geometry":{"type":"Point","coordinates":[0,0]},
		"properties":{"name":"Null Island","pop":0}}`
	g := read(t, doc)
	if g.GeomType() != geom.TypePoint {
		t.Fatalf("GeomType() = %v, want Point", g.GeomType())
	}
	props, ok := g.Data().(map[string]any)
	if !ok {
		t.Fatalf("Data() = %T, want map", g.Data())
	}
	if props["name"] != "Null Island" {
		t.Errorf(`props["name"] = %v, want "Null Island"`, props["name"])
	}
}

func TestReadFeatureCollectionReduces(t *testing.T) {
	uniform := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":1}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[3,4]},"properties":{"n":2}}]}`
	g := read(t, uniform)
	m, ok := g.(*geom.MultiPoint)
	if !ok {
		t.Fatalf("uniform features should reduce to a MultiPoint, got %T", g)
	}
	props := m.Points()[1].Data().(map[string]any)
	if props["n"] != float64(2) {
		t.Errorf("member 1 kept props %v, want n=2", props)
	}

	mixed := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":null},
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":null}]}`
	if _, ok := read(t, mixed).(*geom.GeometryCollection); !ok {
		t.Error("mixed features should reduce to a GeometryCollection")
	}

	empty := `{"type":"FeatureCollection","features":[]}`
	gc, ok := read(t, empty).(*geom.GeometryCollection)
	if !ok || gc.NumGeometries() != 0 {
		t.Error("an empty feature collection should read as an empty collection")
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{oops`},
		{"no type", `{"coordinates":[1,2]}`},
		{"unknown type", `{"type":"Pointy","coordinates":[1,2]}`},
		{"no coordinates", `{"type":"Point"}`},
		{"one value position", `{"type":"Point","coordinates":[1]}`},
		{"five value position", `{"type":"Point","coordinates":[1,2,3,4,5]}`},
		{"wrong shape", `{"type":"LineString","coordinates":[1,2]}`},
		{"feature without geometry", `{"type":"Feature","properties":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Codec{}).Read([]byte(tt.doc))
			if err == nil {
				t.Fatal("Read should fail")
			}
			if !errors.Is(err, errors.ErrCannotParse) {
				t.Errorf("error = %v, want ErrCannotParse", err)
			}
		})
	}
}

func TestReadSinglePointLineInvalid(t *testing.T) {
	_, err := (&Codec{}).Read([]byte(`{"type":"LineString","coordinates":[[1,2]]}`))
	if err == nil {
		t.Fatal("Read should fail")
	}
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
}

func TestReadNestingBomb(t *testing.T) {
	depth := maxNesting + 2
	doc := strings.Repeat(`{"type":"GeometryCollection","geometries":[`, depth) +
		`{"type":"Point","coordinates":[1,2]}` +
		strings.Repeat(`]}`, depth)
	_, err := (&Codec{}).Read([]byte(doc))
	if err == nil {
		t.Fatal("Read should reject pathological nesting")
	}
	if !errors.Is(err, errors.ErrCannotParse) {
		t.Errorf("error = %v, want ErrCannotParse", err)
	}
}

func TestWriteDocuments(t *testing.T) {
	line, err := geom.NewLineString(geom.NewPoint(1, 2), geom.NewPoint(3, 4))
	if err != nil {
		t.Fatalf("NewLineString failed: %v", err)
	}
	emptyCollection, err := geom.NewGeometryCollection()
	if err != nil {
		t.Fatalf("NewGeometryCollection failed: %v", err)
	}
	sridPoint := geom.NewPoint(1, 2)
	sridPoint.SetSRID(4326)
	feature := geom.NewPoint(0, 0)
	feature.SetData(map[string]any{"name": "Null Island"})

	tests := []struct {
		name string
		g    geom.Geometry
		want string
	}{
		{"point", geom.NewPoint(1, 2), `{"type":"Point","coordinates":[1,2]}`},
		{"point z", geom.NewPointZ(1, 2, 3), `{"type":"Point","coordinates":[1,2,3]}`},
		{"measure dropped", geom.NewPointM(1, 2, 3), `{"type":"Point","coordinates":[1,2]}`},
		{"empty point", geom.NewEmptyPoint(), `{"type":"Point","coordinates":[]}`},
		{"linestring", line, `{"type":"LineString","coordinates":[[1,2],[3,4]]}`},
		{"empty collection", emptyCollection, `{"type":"GeometryCollection","geometries":[]}`},
		{"crs", sridPoint, `{"type":"Point","coordinates":[1,2],"crs":{"type":"name","properties":{"name":"EPSG:4326"}}}`},
		{"feature", feature, `{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"name":"Null Island"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Codec{}).Write(tt.g)
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Write = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestWriteFeatureCollection(t *testing.T) {
	a := geom.NewPoint(1, 2)
	a.SetData(map[string]any{"n": 1})
	b := geom.NewPoint(3, 4)
	gc, err := geom.NewGeometryCollection(a, b)
	if err != nil {
		t.Fatalf("NewGeometryCollection failed: %v", err)
	}
	out, err := (&Codec{}).Write(gc)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":1}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[3,4]},"properties":null}]}`
	if string(out) != want {
		t.Errorf("Write = %s, want %s", out, want)
	}
}

func TestWriteNilGeometry(t *testing.T) {
	_, err := (&Codec{}).Write(nil)
	if err == nil {
		t.Fatal("Write should reject nil")
	}
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		`{"type":"Point","coordinates":[1,2]}`,
		`{"type":"Point","coordinates":[1,2,3]}`,
		`{"type":"Point","coordinates":[]}`,
		`{"type":"LineString","coordinates":[[1,2],[3,4],[5,6]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]],[[1,1],[2,1],[2,2],[1,2],[1,1]]]}`,
		`{"type":"MultiPoint","coordinates":[[],[1,2]]}`,
		`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3]]]}`,
		`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,1],[0,0]]]]}`,
		`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]},{"type":"LineString","coordinates":[[3,4],[5,6]]}]}`,
		`{"type":"GeometryCollection","geometries":[]}`,
		`{"type":"Point","coordinates":[1,2],"crs":{"type":"name","properties":{"name":"EPSG:3857"}}}`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			g := read(t, doc)
			out, err := (&Codec{}).Write(g)
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if string(out) != doc {
				t.Errorf("Write = %s, want %s", out, doc)
			}
			if !read(t, string(out)).Equals(g) {
				t.Error("round trip changed the geometry")
			}
		})
	}
}

func TestRoundTripFeature(t *testing.T) {
	doc := `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"a","pop":42}}`
	g := read(t, doc)
	out, err := (&Codec{}).Write(g)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(out) != doc {
		t.Errorf("Write = %s, want %s", out, doc)
	}
}
