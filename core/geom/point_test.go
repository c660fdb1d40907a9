package geom

import (
	"math"
	"testing"
)

func TestNewPoint(t *testing.T) {
	p := NewPoint(1.5, -2.5)
	if p.IsEmpty() {
		t.Error("IsEmpty() = true for a populated point")
	}
	if x := p.X(); x != 1.5 {
		t.Errorf("X() = %v, want 1.5", x)
	}
	if y := p.Y(); y != -2.5 {
		t.Errorf("Y() = %v, want -2.5", y)
	}
	if p.Is3D() {
		t.Error("Is3D() = true for an XY point")
	}
	if p.IsMeasured() {
		t.Error("IsMeasured() = true for an XY point")
	}
	if p.GeomType() != TypePoint {
		t.Errorf("GeomType() = %v, want TypePoint", p.GeomType())
	}
	if p.Dimension() != 0 {
		t.Errorf("Dimension() = %d, want 0", p.Dimension())
	}
}

func TestNewPointNaNIsEmpty(t *testing.T) {
	// A NaN x or y is the binary codecs' empty-point convention; the
	// model normalizes it to an explicitly empty point.
	tests := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 2},
		{"nan y", 1, math.NaN()},
		{"nan both", math.NaN(), math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoint(tt.x, tt.y)
			if !p.IsEmpty() {
				t.Error("IsEmpty() = false, want true")
			}
			if _, _, ok := p.XY(); ok {
				t.Error("XY() ok = true for an empty point")
			}
		})
	}
}

func TestNewPointZM(t *testing.T) {
	p := NewPointZM(1, 2, 3, 4)
	if !p.Is3D() {
		t.Error("Is3D() = false")
	}
	if !p.IsMeasured() {
		t.Error("IsMeasured() = false")
	}
	z, ok := p.Z()
	if !ok || z != 3 {
		t.Errorf("Z() = %v, %v, want 3, true", z, ok)
	}
	m, ok := p.M()
	if !ok || m != 4 {
		t.Errorf("M() = %v, %v, want 4, true", m, ok)
	}

	// NaN z and m are dropped rather than stored.
	p = NewPointZM(1, 2, math.NaN(), math.NaN())
	if p.Is3D() || p.IsMeasured() {
		t.Error("NaN z/m should not register as present")
	}
	if p.IsEmpty() {
		t.Error("IsEmpty() = true; x and y are present")
	}
}

func TestPointAsArray(t *testing.T) {
	tests := []struct {
		name  string
		point *Point
		want  []float64
	}{
		{"xy", NewPoint(1, 2), []float64{1, 2}},
		{"xyz", NewPointZ(1, 2, 3), []float64{1, 2, 3}},
		{"xyzm", NewPointZM(1, 2, 3, 4), []float64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.point.AsArray().([]float64)
			if len(got) != len(tt.want) {
				t.Fatalf("AsArray() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AsArray()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPointAsArrayEmpty(t *testing.T) {
	got := NewEmptyPoint().AsArray().([]float64)
	if len(got) != 2 {
		t.Fatalf("AsArray() len = %d, want 2", len(got))
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("AsArray() = %v, want [NaN NaN]", got)
	}
}

func TestPointAsArrayMeasuredPadsZ(t *testing.T) {
	// XYM pads the absent z slot with NaN so m stays in position 3.
	got := NewPointM(1, 2, 5).AsArray().([]float64)
	if len(got) != 4 {
		t.Fatalf("AsArray() len = %d, want 4", len(got))
	}
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("AsArray() xy = %v, %v, want 1, 2", got[0], got[1])
	}
	if !math.IsNaN(got[2]) {
		t.Errorf("AsArray()[2] = %v, want NaN", got[2])
	}
	if got[3] != 5 {
		t.Errorf("AsArray()[3] = %v, want 5", got[3])
	}
}

func TestPointEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Geometry
		want bool
	}{
		{"same xy", NewPoint(1, 2), NewPoint(1, 2), true},
		{"different x", NewPoint(1, 2), NewPoint(3, 2), false},
		{"xy vs xyz", NewPoint(1, 2), NewPointZ(1, 2, 0), false},
		{"both empty", NewEmptyPoint(), NewEmptyPoint(), true},
		{"empty vs populated", NewEmptyPoint(), NewPoint(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointEqualsIgnoresSRIDAndData(t *testing.T) {
	a := NewPoint(1, 2)
	b := NewPoint(1, 2)
	a.SetSRID(4326)
	b.SetData(map[string]any{"name": "b"})
	if !a.Equals(b) {
		t.Error("Equals() = false; SRID and payload must not affect equality")
	}
}

func TestPointInvertXY(t *testing.T) {
	p := NewPointZM(1, 2, 3, 4)
	p.InvertXY()
	if p.X() != 2 || p.Y() != 1 {
		t.Errorf("after InvertXY: X() = %v, Y() = %v, want 2, 1", p.X(), p.Y())
	}
	if z, _ := p.Z(); z != 3 {
		t.Errorf("after InvertXY: Z() = %v, want 3", z)
	}
}

func TestPointFlatten(t *testing.T) {
	p := NewPointZM(1, 2, 3, 4)
	p.Flatten()
	if p.Is3D() || p.IsMeasured() {
		t.Error("Flatten() left z or m in place")
	}
	if p.X() != 1 || p.Y() != 2 {
		t.Errorf("Flatten() disturbed xy: %v, %v", p.X(), p.Y())
	}
}

func TestPointBBox(t *testing.T) {
	p := NewPoint(3, 7)
	box := p.BBox()
	if box == nil {
		t.Fatal("BBox() = nil for a populated point")
	}
	if box.MinX != 3 || box.MaxX != 3 || box.MinY != 7 || box.MaxY != 7 {
		t.Errorf("BBox() = %+v, want degenerate box at (3,7)", box)
	}
	if NewEmptyPoint().BBox() != nil {
		t.Error("BBox() != nil for an empty point")
	}
}

func TestPointXReturnsNaNWhenEmpty(t *testing.T) {
	p := NewEmptyPoint()
	if !math.IsNaN(p.X()) || !math.IsNaN(p.Y()) {
		t.Errorf("X(), Y() = %v, %v, want NaN, NaN", p.X(), p.Y())
	}
}
