package kml

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
		name string
		doc  string
	}{
		{"bare", `<Point><coordinates>1,2</coordinates></Point>`},
		{"padded", "<Point><coordinates>\n\t 1,2 \n</coordinates></Point>"},
		{"namespaced", `<kml:Point><kml:coordinates>1,2</kml:coordinates></kml:Point>`},
		{"lowercase", `<point><coordinates>1,2</coordinates></point>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := read(t, tt.doc).(*geom.Point)
			if p.X() != 1 || p.Y() != 2 {
				t.Errorf("point = (%v, %v), want (1, 2)", p.X(), p.Y())
			}
		})
	}
}

func TestReadPointAltitude(t *testing.T) {
	p := read(t, `<Point><coordinates>1,2,3</coordinates></Point>`).(*geom.Point)
	if !p.Is3D() {
		t.Fatal("Is3D() = false")
	}
	if z, _ := p.Z(); z != 3 {
		t.Errorf("Z() = %v, want 3", z)
	}

	// A fourth value in a tuple has no slot and is dropped.
	p = read(t, `<Point><coordinates>1,2,3,99</coordinates></Point>`).(*geom.Point)
	if z, _ := p.Z(); z != 3 {
		t.Errorf("Z() = %v, want 3", z)
	}
}

func TestReadEmptyPoint(t *testing.T) {
	for _, doc := range []string{
		`<Point><coordinates></coordinates></Point>`,
		`<Point/>`,
	} {
		p := read(t, doc).(*geom.Point)
		if !p.IsEmpty() {
			t.Errorf("Read(%s): IsEmpty() = false", doc)
		}
	}
}

func TestReadLineString(t *testing.T) {
	doc := `<LineString><coordinates>1,2 3,4 5,6</coordinates></LineString>`
	l := read(t, doc).(*geom.LineString)
	if l.NumPoints() != 3 {
		t.Fatalf("NumPoints() = %d, want 3", l.NumPoints())
	}
	if p := l.Points()[2]; p.X() != 5 || p.Y() != 6 {
		t.Errorf("last point = (%v, %v), want (5, 6)", p.X(), p.Y())
	}
}

func TestReadSinglePointLineInvalid(t *testing.T) {
	doc := `<LineString><coordinates>1,2</coordinates></LineString>`
	_, err := (&Codec{}).Read([]byte(doc))
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Fatalf("err = %v, want invalid geometry", err)
	}
}

func TestReadPolygon(t *testing.T) {
	doc := `<Polygon>
		<outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,4 0,0</coordinates></LinearRing></outerBoundaryIs>
		<innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,2 1,1</coordinates></LinearRing></innerBoundaryIs>
	</Polygon>`
	p := read(t, doc).(*geom.Polygon)
	if p.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2", p.NumRings())
	}
	if a := p.Area(); a != 15 {
		t.Errorf("Area() = %v, want 15", a)
	}
}

func TestReadPolygonOpenRingInvalid(t *testing.T) {
	doc := `<Polygon><outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,4</coordinates></LinearRing></outerBoundaryIs></Polygon>`
	_, err := (&Codec{}).Read([]byte(doc))
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Fatalf("err = %v, want invalid geometry", err)
	}
}

func TestReadMultiGeometry(t *testing.T) {
	uniform := `<MultiGeometry>
		<Point><coordinates>1,2</coordinates></Point>
		<Point><coordinates>3,4</coordinates></Point>
	</MultiGeometry>`
	if g := read(t, uniform); g.GeomType() != geom.TypeMultiPoint {
		t.Errorf("uniform members = %s, want MultiPoint", g.GeomType())
	}

	mixed := `<MultiGeometry>
		<Point><coordinates>1,2</coordinates></Point>
		<LineString><coordinates>1,2 3,4</coordinates></LineString>
	</MultiGeometry>`
	if g := read(t, mixed); g.GeomType() != geom.TypeGeometryCollection {
		t.Errorf("mixed members = %s, want GeometryCollection", g.GeomType())
	}

	if g := read(t, `<MultiGeometry></MultiGeometry>`); !g.IsEmpty() {
		t.Error("empty MultiGeometry: IsEmpty() = false")
	}
}

func TestReadPlacemarkDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
	<kml xmlns="http://www.opengis.net/kml/2.2">
	<Document>
		<Placemark>
			<name>first</name>
			<description>ignored</description>
			<Point><coordinates>1,2</coordinates></Point>
		</Placemark>
		<Placemark>
			<name>second</name>
			<Point><coordinates>3,4</coordinates></Point>
		</Placemark>
	</Document>
	</kml>`
	g := read(t, doc)
	m, ok := g.(*geom.MultiPoint)
	if !ok {
		t.Fatalf("Read() = %T, want *geom.MultiPoint", g)
	}
	if m.NumGeometries() != 2 {
		t.Fatalf("NumGeometries() = %d, want 2", m.NumGeometries())
	}
	if p := m.Geometry(1).(*geom.Point); p.X() != 3 || p.Y() != 4 {
		t.Errorf("second point = (%v, %v), want (3, 4)", p.X(), p.Y())
	}
}

func TestReadSinglePlacemark(t *testing.T) {
	doc := `<kml><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></kml>`
	if _, ok := read(t, doc).(*geom.Point); !ok {
		t.Fatal("single placemark should read as a bare point")
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty input", ``},
		{"not xml", `POINT (1 2)`},
		{"no geometry elements", `<kml><Placemark><name>x</name></Placemark></kml>`},
		{"lone coordinate", `<Point><coordinates>1</coordinates></Point>`},
		{"non numeric coordinate", `<Point><coordinates>a,b</coordinates></Point>`},
		{"inner without outer", `<Polygon><innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs></Polygon>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Codec{}).Read([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCannotParse) {
				t.Errorf("err = %v, want parse failure", err)
			}
		})
	}
}

func TestReadMismatchedTags(t *testing.T) {
	_, err := (&Codec{}).Read([]byte(`<Point><coordinates>1,2</wrong></Point>`))
	if !errors.Is(err, errors.ErrInvalidXML) {
		t.Fatalf("err = %v, want invalid XML", err)
	}
}

func TestReadNestingBomb(t *testing.T) {
	depth := maxNesting + 2
	doc := strings.Repeat("<MultiGeometry>", depth) +
		"<Point><coordinates>1,2</coordinates></Point>" +
		strings.Repeat("</MultiGeometry>", depth)
	_, err := (&Codec{}).Read([]byte(doc))
	if !errors.Is(err, errors.ErrCannotParse) {
		t.Fatalf("err = %v, want parse failure", err)
	}
}

func TestWriteDocuments(t *testing.T) {
	line := mustLine(t, [][2]float64{{1, 2}, {3, 4}})
	polygon := mustPolygon(t,
		[][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		[][2]float64{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}})
	multi, err := geom.NewMultiPoint(geom.NewPoint(1, 2), geom.NewPoint(3, 4))
	if err != nil {
		t.Fatalf("NewMultiPoint failed: %v", err)
	}
	emptyPolygon, err := geom.NewPolygon()
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}

	tests := []struct {
		name string
		g    geom.Geometry
		want string
	}{
		{"point", geom.NewPoint(-71.064544, 42.28787),
			`<Point><coordinates>-71.064544,42.28787</coordinates></Point>`},
		{"point z", geom.NewPointZ(1, 2, 3),
			`<Point><coordinates>1,2,3</coordinates></Point>`},
		{"measure dropped", geom.NewPointM(1, 2, 9),
			`<Point><coordinates>1,2</coordinates></Point>`},
		{"empty point", geom.NewEmptyPoint(),
			`<Point><coordinates></coordinates></Point>`},
		{"linestring", line,
			`<LineString><coordinates>1,2 3,4</coordinates></LineString>`},
		{"polygon", polygon,
			`<Polygon>` +
				`<outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,4 0,0</coordinates></LinearRing></outerBoundaryIs>` +
				`<innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,2 1,1</coordinates></LinearRing></innerBoundaryIs>` +
				`</Polygon>`},
		{"empty polygon", emptyPolygon, `<Polygon></Polygon>`},
		{"multipoint", multi,
			`<MultiGeometry>` +
				`<Point><coordinates>1,2</coordinates></Point>` +
				`<Point><coordinates>3,4</coordinates></Point>` +
				`</MultiGeometry>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Codec{}).Write(tt.g)
			if err != nil {
				t.Fatalf("Write() failed: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Write() = %s, want %s", out, tt.want)
			}
		})
	}
}

func TestWriteNamespacePrefix(t *testing.T) {
	out, err := (&Codec{}).Write(geom.NewPoint(1, 2), "kml")
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	want := `<kml:Point><kml:coordinates>1,2</kml:coordinates></kml:Point>`
	if string(out) != want {
		t.Errorf("Write() = %s, want %s", out, want)
	}
}

func TestWriteNilGeometry(t *testing.T) {
	_, err := (&Codec{}).Write(nil)
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Fatalf("err = %v, want invalid geometry", err)
	}
}

func TestRoundTrip(t *testing.T) {
	line, err := geom.NewLineString(geom.NewPointZ(1, 2, 3), geom.NewPointZ(4, 5, 6))
	if err != nil {
		t.Fatalf("NewLineString failed: %v", err)
	}
	polygon := mustPolygon(t,
		[][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		[][2]float64{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}})
	multiLine, err := geom.NewMultiLineString(
		mustLine(t, [][2]float64{{1, 2}, {3, 4}}),
		mustLine(t, [][2]float64{{5, 6}, {7, 8}}))
	if err != nil {
		t.Fatalf("NewMultiLineString failed: %v", err)
	}
	multiPolygon, err := geom.NewMultiPolygon(
		mustPolygon(t, [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}),
		mustPolygon(t, [][2]float64{{5, 5}, {6, 5}, {6, 6}, {5, 5}}))
	if err != nil {
		t.Fatalf("NewMultiPolygon failed: %v", err)
	}
	collection, err := geom.NewGeometryCollection(
		geom.NewPoint(1, 2),
		mustLine(t, [][2]float64{{3, 4}, {5, 6}}))
	if err != nil {
		t.Fatalf("NewGeometryCollection failed: %v", err)
	}

	tests := []struct {
		name string
		g    geom.Geometry
	}{
		{"point", geom.NewPoint(-71.064544, 42.28787)},
		{"point z", geom.NewPointZ(1, 2, 3)},
		{"linestring z", line},
		{"polygon with hole", polygon},
		{"multilinestring", multiLine},
		{"multipolygon", multiPolygon},
		{"mixed collection", collection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Codec{}).Write(tt.g)
			if err != nil {
				t.Fatalf("Write() failed: %v", err)
			}
			back, err := (&Codec{}).Read(out)
			if err != nil {
				t.Fatalf("Read(%s) failed: %v", out, err)
			}
			if !tt.g.Equals(back) {
				t.Errorf("round trip of %s changed the geometry: %s", tt.name, out)
			}
		})
	}
}

func mustLine(t *testing.T, coords [][2]float64) *geom.LineString {
	t.Helper()
	points := make([]*geom.Point, len(coords))
	for i, c := range coords {
		points[i] = geom.NewPoint(c[0], c[1])
	}
	l, err := geom.NewLineString(points...)
	if err != nil {
		t.Fatalf("NewLineString() failed: %v", err)
	}
	return l
}

func mustPolygon(t *testing.T, rings ...[][2]float64) *geom.Polygon {
	t.Helper()
	lines := make([]*geom.LineString, len(rings))
	for i, ring := range rings {
		lines[i] = mustLine(t, ring)
	}
	p, err := geom.NewPolygon(lines...)
	if err != nil {
		t.Fatalf("NewPolygon() failed: %v", err)
	}
	return p
}
