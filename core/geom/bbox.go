package geom

// BBox is a two-dimensional axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// ExtendXY grows the box to include the coordinate pair.
func (b *BBox) ExtendXY(x, y float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

// Extend grows the box to include another box. A nil other is a no-op.
func (b *BBox) Extend(other *BBox) {
	if other == nil {
		return
	}
	b.ExtendXY(other.MinX, other.MinY)
	b.ExtendXY(other.MaxX, other.MaxY)
}

// Polygon returns the envelope as a closed counter-clockwise ring polygon.
// A degenerate box (zero width and height) still yields a valid ring of
// five coordinate-equal corners.
func (b *BBox) Polygon() *Polygon {
	ring, err := NewLineString(
		NewPoint(b.MinX, b.MinY),
		NewPoint(b.MinX, b.MaxY),
		NewPoint(b.MaxX, b.MaxY),
		NewPoint(b.MaxX, b.MinY),
		NewPoint(b.MinX, b.MinY),
	)
	if err != nil {
		// Five fresh non-empty points cannot violate the line invariant.
		panic(err)
	}
	poly, err := NewPolygon(ring)
	if err != nil {
		panic(err)
	}
	return poly
}

// mergeBBoxes unions the boxes of a component list, nil when all are empty.
func mergeBBoxes(comps []Geometry) *BBox {
	var box *BBox
	for _, c := range comps {
		cb := c.BBox()
		if cb == nil {
			continue
		}
		if box == nil {
			copied := *cb
			box = &copied
			continue
		}
		box.Extend(cb)
	}
	return box
}
