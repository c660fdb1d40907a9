package geom

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypePoint, "Point"},
		{TypeLineString, "LineString"},
		{TypePolygon, "Polygon"},
		{TypeMultiPoint, "MultiPoint"},
		{TypeMultiLineString, "MultiLineString"},
		{TypeMultiPolygon, "MultiPolygon"},
		{TypeGeometryCollection, "GeometryCollection"},
		{NoType, "Unknown"},
		{Type(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestTypePredicates(t *testing.T) {
	for _, typ := range []Type{TypePoint, TypeLineString, TypePolygon} {
		if !typ.IsAtomic() {
			t.Errorf("%v.IsAtomic() = false", typ)
		}
		if typ.IsMulti() {
			t.Errorf("%v.IsMulti() = true", typ)
		}
	}
	for _, typ := range []Type{TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon} {
		if !typ.IsMulti() {
			t.Errorf("%v.IsMulti() = false", typ)
		}
		if typ.IsAtomic() {
			t.Errorf("%v.IsAtomic() = true", typ)
		}
	}
	if TypeGeometryCollection.IsMulti() {
		t.Error("GeometryCollection.IsMulti() = true; collections are heterogeneous")
	}
}

func TestMultiTypeFor(t *testing.T) {
	tests := []struct {
		in, want Type
	}{
		{TypePoint, TypeMultiPoint},
		{TypeLineString, TypeMultiLineString},
		{TypePolygon, TypeMultiPolygon},
		{TypeMultiPoint, NoType},
		{TypeGeometryCollection, NoType},
	}
	for _, tt := range tests {
		if got := MultiTypeFor(tt.in); got != tt.want {
			t.Errorf("MultiTypeFor(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewMultiRejectsKindMismatch(t *testing.T) {
	l := mustLine(t, [2]float64{0, 0}, [2]float64{1, 1})
	_, err := NewMulti(TypePoint, []Geometry{NewPoint(0, 0), l})
	if err == nil {
		t.Fatal("NewMulti(Point, [point line]) should fail")
	}
}

func TestNewMultiRejectsNonAtomicKind(t *testing.T) {
	if _, err := NewMulti(TypeMultiPoint, nil); err == nil {
		t.Error("NewMulti(MultiPoint, ...) should fail; no MultiMultiPoint exists")
	}
}

func TestNewMultiBuildsEachContainer(t *testing.T) {
	square, err := NewPolygon(unitSquare(t))
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	tests := []struct {
		name  string
		typ   Type
		comps []Geometry
		want  Type
	}{
		{"points", TypePoint, []Geometry{NewPoint(0, 0), NewPoint(1, 1)}, TypeMultiPoint},
		{"lines", TypeLineString, []Geometry{mustLine(t, [2]float64{0, 0}, [2]float64{1, 1})}, TypeMultiLineString},
		{"polygons", TypePolygon, []Geometry{square}, TypeMultiPolygon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMulti(tt.typ, tt.comps)
			if err != nil {
				t.Fatalf("NewMulti failed: %v", err)
			}
			if got.GeomType() != tt.want {
				t.Errorf("GeomType() = %v, want %v", got.GeomType(), tt.want)
			}
		})
	}
}

func TestCollectionDimension(t *testing.T) {
	square, err := NewPolygon(unitSquare(t))
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	gc := mustCollection(t, NewPoint(0, 0), square)
	if d := gc.Dimension(); d != 2 {
		t.Errorf("Dimension() = %d, want 2 (maximum over members)", d)
	}
	if d := mustCollection(t).Dimension(); d != 0 {
		t.Errorf("empty collection Dimension() = %d, want 0", d)
	}
}

func TestCollectionSetSRIDRecurses(t *testing.T) {
	p := NewPoint(0, 0)
	inner := mustCollection(t, p)
	outer := mustCollection(t, inner)
	outer.SetSRID(4326)
	if p.SRID() != 4326 {
		t.Errorf("leaf SRID() = %d, want 4326", p.SRID())
	}
	if inner.SRID() != 4326 {
		t.Errorf("inner SRID() = %d, want 4326", inner.SRID())
	}
}

func TestCollectionIsEmpty(t *testing.T) {
	if !mustCollection(t).IsEmpty() {
		t.Error("IsEmpty() = false for a memberless collection")
	}
	if !mustCollection(t, NewEmptyPoint()).IsEmpty() {
		t.Error("IsEmpty() = false for a collection of empty members")
	}
	if mustCollection(t, NewPoint(1, 1)).IsEmpty() {
		t.Error("IsEmpty() = true for a populated collection")
	}
}

func TestMultiPointBBoxMergesMembers(t *testing.T) {
	m := mustMultiPoint(t, NewPoint(-3, 2), NewPoint(5, -1))
	box := m.BBox()
	if box == nil {
		t.Fatal("BBox() = nil")
	}
	if box.MinX != -3 || box.MaxX != 5 || box.MinY != -1 || box.MaxY != 2 {
		t.Errorf("BBox() = %+v, want {-3 -1 5 2}", box)
	}
}

func TestMultiPolygonArea(t *testing.T) {
	square, err := NewPolygon(unitSquare(t))
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	other, err := NewPolygon(mustRing(t,
		[2]float64{10, 10}, [2]float64{12, 10}, [2]float64{12, 12}, [2]float64{10, 12}, [2]float64{10, 10}))
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	m, err := NewMultiPolygon(square, other)
	if err != nil {
		t.Fatalf("NewMultiPolygon failed: %v", err)
	}
	if a := m.Area(); a != 5 {
		t.Errorf("Area() = %v, want 5", a)
	}
}

func TestFlattenRecursesWholeTree(t *testing.T) {
	l, err := NewLineString(NewPointZ(0, 0, 1), NewPointZ(1, 1, 2))
	if err != nil {
		t.Fatalf("NewLineString failed: %v", err)
	}
	gc := mustCollection(t, l, NewPointZM(2, 2, 3, 4))
	if !gc.Is3D() {
		t.Fatal("Is3D() = false before Flatten")
	}
	gc.Flatten()
	if gc.Is3D() || gc.IsMeasured() {
		t.Error("Flatten() left z or m somewhere in the tree")
	}
}

func TestEqualsAcrossContainerKinds(t *testing.T) {
	mp := mustMultiPoint(t, NewPoint(1, 1))
	gc := mustCollection(t, NewPoint(1, 1))
	if mp.Equals(gc) {
		t.Error("Equals() = true for MultiPoint vs GeometryCollection")
	}
}
