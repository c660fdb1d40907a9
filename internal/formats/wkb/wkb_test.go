package wkb

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// mustHex decodes a hex fixture or fails the test.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

func TestReadPoint(t *testing.T) {
	// POINT (1 2), little-endian.
	data := mustHex(t, "0101000000000000000000f03f0000000000000040")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		t.Fatalf("Read returned %T, want *geom.Point", g)
	}
	if p.X() != 1 || p.Y() != 2 {
		t.Errorf("point = (%v, %v), want (1, 2)", p.X(), p.Y())
	}
	if p.SRID() != 0 {
		t.Errorf("SRID() = %d, want 0", p.SRID())
	}
}

func TestReadPointBigEndian(t *testing.T) {
	data := mustHex(t, "00000000013ff00000000000004000000000000000")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	p := g.(*geom.Point)
	if p.X() != 1 || p.Y() != 2 {
		t.Errorf("point = (%v, %v), want (1, 2)", p.X(), p.Y())
	}
}

func TestReadPointWithSRID(t *testing.T) {
	// SRID=4326;POINT (1 2) in the extended form.
	data := mustHex(t, "0101000020e6100000000000000000f03f0000000000000040")
	g, err := (&Codec{extended: true}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if g.SRID() != 4326 {
		t.Errorf("SRID() = %d, want 4326", g.SRID())
	}
}

func TestReadHexArg(t *testing.T) {
	g, err := (&Codec{}).Read([]byte("0101000000000000000000f03f0000000000000040"), "hex")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	p := g.(*geom.Point)
	if p.X() != 1 || p.Y() != 2 {
		t.Errorf("point = (%v, %v), want (1, 2)", p.X(), p.Y())
	}
}

func TestReadEmptyPointNaN(t *testing.T) {
	data := mustHex(t, "0101000000000000000000f87f000000000000f87f")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !g.IsEmpty() {
		t.Error("IsEmpty() = false for NaN/NaN point")
	}
}

func TestReadPointZVariants(t *testing.T) {
	// The same POINT Z (1 2 3) in the flag-bit form and the ISO
	// thousands form.
	coords := "000000000000f03f00000000000000400000000000000840"
	tests := []struct {
		name string
		hex  string
	}{
		{"flag bit", "0101000080" + coords},
		{"iso code 1001", "01e9030000" + coords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := (&Codec{}).Read(mustHex(t, tt.hex))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			p := g.(*geom.Point)
			if !p.Is3D() {
				t.Fatal("Is3D() = false")
			}
			z, _ := p.Z()
			if z != 3 {
				t.Errorf("Z() = %v, want 3", z)
			}
		})
	}
}

func TestReadLineString(t *testing.T) {
	// LINESTRING (1 2, 3 4)
	data := mustHex(t, "010200000002000000"+
		"000000000000f03f0000000000000040"+
		"00000000000008400000000000001040")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	l, ok := g.(*geom.LineString)
	if !ok {
		t.Fatalf("Read returned %T, want *geom.LineString", g)
	}
	if l.NumPoints() != 2 {
		t.Fatalf("NumPoints() = %d, want 2", l.NumPoints())
	}
	if p := l.Points()[1]; p.X() != 3 || p.Y() != 4 {
		t.Errorf("point 1 = (%v, %v), want (3, 4)", p.X(), p.Y())
	}
}

func TestReadMultiPoint(t *testing.T) {
	data := mustHex(t, "010400000002000000"+
		"0101000000000000000000f03f0000000000000040"+
		"010100000000000000000008400000000000001040")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	m, ok := g.(*geom.MultiPoint)
	if !ok {
		t.Fatalf("Read returned %T, want *geom.MultiPoint", g)
	}
	if m.NumGeometries() != 2 {
		t.Errorf("NumGeometries() = %d, want 2", m.NumGeometries())
	}
}

func TestReadGeometryCollection(t *testing.T) {
	data := mustHex(t, "010700000001000000"+
		"0101000000000000000000f03f0000000000000040")
	g, err := (&Codec{}).Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	gc, ok := g.(*geom.GeometryCollection)
	if !ok {
		t.Fatalf("Read returned %T, want *geom.GeometryCollection", g)
	}
	if gc.NumGeometries() != 1 {
		t.Errorf("NumGeometries() = %d, want 1", gc.NumGeometries())
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"empty input", ""},
		{"bad byte order", "02010000000000000000"},
		{"unknown type code", "0108000000"},
		{"truncated point", "0101000000000000000000f03f"},
		{"hostile point count", "0102000000ffffffff"},
		{"truncated collection", "010700000002000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Codec{}).Read(mustHex(t, tt.hex))
			if err == nil {
				t.Fatal("Read should fail")
			}
			if !errors.Is(err, errors.ErrCannotParse) {
				t.Errorf("error = %v, want ErrCannotParse", err)
			}
		})
	}
}

func TestReadBadHexArg(t *testing.T) {
	_, err := (&Codec{}).Read([]byte("zz01"), "hex")
	if err == nil {
		t.Fatal("Read should fail on non-hex input")
	}
}

func TestReadSinglePointLineStringInvalid(t *testing.T) {
	// A one-point line violates the model invariant; the codec must not
	// paper over it.
	data := mustHex(t, "010200000001000000"+
		"000000000000f03f0000000000000040")
	_, err := (&Codec{}).Read(data)
	if err == nil {
		t.Fatal("Read should fail for a one-point linestring")
	}
	if !errors.Is(err, errors.ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
}

func TestReadNestingBomb(t *testing.T) {
	// 101 levels of single-member collections around a point.
	level := mustHex(t, "010700000001000000")
	point := mustHex(t, "0101000000000000000000f03f0000000000000040")
	data := bytes.Repeat(level, maxNesting+1)
	data = append(data, point...)
	_, err := (&Codec{}).Read(data)
	if err == nil {
		t.Fatal("Read should reject pathological nesting")
	}
	if !errors.Is(err, errors.ErrCannotParse) {
		t.Errorf("error = %v, want ErrCannotParse", err)
	}
}

func TestWritePoint(t *testing.T) {
	out, err := (&Codec{}).Write(geom.NewPoint(1, 2))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "0101000000000000000000f03f0000000000000040"
	if got := hex.EncodeToString(out); got != want {
		t.Errorf("Write = %s, want %s", got, want)
	}
}

func TestWriteHexArg(t *testing.T) {
	out, err := (&Codec{}).Write(geom.NewPoint(1, 2), "hex")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(out) != "0101000000000000000000f03f0000000000000040" {
		t.Errorf("Write hex = %s", out)
	}
}

func TestWriteExtendedCarriesSRID(t *testing.T) {
	p := geom.NewPoint(1, 2)
	p.SetSRID(4326)

	out, err := (&Codec{extended: true}).Write(p, "hex")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(out) != "0101000020e6100000000000000000f03f0000000000000040" {
		t.Errorf("Write = %s", out)
	}

	// The plain codec drops the SRID entirely.
	out, err = (&Codec{}).Write(p, "hex")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(out) != "0101000000000000000000f03f0000000000000040" {
		t.Errorf("plain Write = %s", out)
	}
}

func TestWriteEmptyPoint(t *testing.T) {
	out, err := (&Codec{}).Write(geom.NewEmptyPoint())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	g, err := (&Codec{}).Read(out)
	if err != nil {
		t.Fatalf("Read back failed: %v", err)
	}
	if !g.IsEmpty() {
		t.Error("round-tripped empty point is not empty")
	}
}

func TestRoundTrip(t *testing.T) {
	line := func(coords ...[2]float64) *geom.LineString {
		points := make([]*geom.Point, len(coords))
		for i, c := range coords {
			points[i] = geom.NewPoint(c[0], c[1])
		}
		l, err := geom.NewLineString(points...)
		if err != nil {
			t.Fatalf("NewLineString failed: %v", err)
		}
		return l
	}
	ring := line([2]float64{0, 0}, [2]float64{4, 0}, [2]float64{4, 4}, [2]float64{0, 4}, [2]float64{0, 0})
	hole := line([2]float64{1, 1}, [2]float64{2, 1}, [2]float64{2, 2}, [2]float64{1, 2}, [2]float64{1, 1})
	polygon, err := geom.NewPolygon(ring, hole)
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	multiLine, err := geom.NewMultiLineString(
		line([2]float64{0, 0}, [2]float64{1, 1}),
		line([2]float64{2, 2}, [2]float64{3, 3}))
	if err != nil {
		t.Fatalf("NewMultiLineString failed: %v", err)
	}
	collection, err := geom.NewGeometryCollection(geom.NewPoint(5, 6), polygon.Clone())
	if err != nil {
		t.Fatalf("NewGeometryCollection failed: %v", err)
	}

	tests := []struct {
		name string
		g    geom.Geometry
	}{
		{"point", geom.NewPoint(-71.064544, 42.28787)},
		{"point z", geom.NewPointZ(1, 2, 3)},
		{"point m", geom.NewPointM(1, 2, 4)},
		{"point zm", geom.NewPointZM(1, 2, 3, 4)},
		{"linestring", line([2]float64{1, 2}, [2]float64{3, 4}, [2]float64{5, 6})},
		{"polygon with hole", polygon},
		{"multilinestring", multiLine},
		{"collection", collection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range []*Codec{{}, {extended: true}} {
				out, err := c.Write(tt.g)
				if err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				back, err := c.Read(out)
				if err != nil {
					t.Fatalf("Read back failed: %v", err)
				}
				if !tt.g.Equals(back) {
					t.Errorf("round trip changed the geometry (%s)", c.tag())
				}
			}
		})
	}
}

func TestRoundTripExtendedPreservesZMAndSRID(t *testing.T) {
	p := geom.NewPointZM(1, 2, 3, 4)
	p.SetSRID(3857)
	c := &Codec{extended: true}
	out, err := c.Write(p, "hex")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	back, err := c.Read(out, "hex")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !back.Is3D() || !back.IsMeasured() {
		t.Error("Z/M flags lost in round trip")
	}
	if back.SRID() != 3857 {
		t.Errorf("SRID() = %d, want 3857", back.SRID())
	}
	if !p.Equals(back) {
		t.Error("round trip changed the geometry")
	}
}

func TestWriteNaNPadsAbsentZ(t *testing.T) {
	// A line mixing z and non-z points writes under one Z header; the
	// absent z pads with NaN and the round trip keeps the present one.
	a := geom.NewPointZ(0, 0, 5)
	b := geom.NewPoint(1, 1)
	l, err := geom.NewLineString(a, b)
	if err != nil {
		t.Fatalf("NewLineString failed: %v", err)
	}
	out, err := (&Codec{}).Write(l)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	back, err := (&Codec{}).Read(out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	points := back.(*geom.LineString).Points()
	if z, ok := points[0].Z(); !ok || z != 5 {
		t.Errorf("point 0 Z = %v, %v, want 5, true", z, ok)
	}
	if _, ok := points[1].Z(); ok {
		t.Error("point 1 should have no z after the NaN pad")
	}
}
