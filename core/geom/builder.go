package geom

import "github.com/geomkit/geomkit/core/errors"

// Reduce simplifies one or more geometries to the least-nested form that
// still represents their atomic parts. Nil inputs are skipped. A single
// atomic geometry passes through unchanged; a single multi geometry with
// exactly one member reduces to that member. Everything else, including a
// single GeometryCollection, is flattened depth-first into its atomic
// leaves: one leaf comes back as itself, leaves of one kind come back as
// the natural multi container, and mixed kinds come back as a
// GeometryCollection. When no leaves remain the result is nil.
//
// Reduce is pure with respect to the leaves (they are shared, not cloned)
// and idempotent: Reduce(Reduce(gs...)) == Reduce(gs...).
func Reduce(geoms ...Geometry) Geometry {
	if len(geoms) == 0 {
		return nil
	}
	if len(geoms) == 1 {
		g := geoms[0]
		if g == nil {
			return nil
		}
		switch t := g.GeomType(); {
		case t.IsAtomic():
			return g
		case t.IsMulti():
			if m := g.(Multi); m.NumGeometries() == 1 {
				return m.Geometry(0)
			}
			return g
		}
		// A single GeometryCollection flattens like a sequence.
	}

	// Flatten with an explicit stack so arbitrarily nested collections
	// cannot exhaust the goroutine stack. Children are pushed in reverse
	// to preserve document order in the leaves.
	stack := make([]Geometry, 0, len(geoms))
	for i := len(geoms) - 1; i >= 0; i-- {
		if geoms[i] != nil {
			stack = append(stack, geoms[i])
		}
	}
	var (
		leaves []Geometry
		kinds  = make(map[Type]struct{})
		kind   Type
	)
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t := g.GeomType()
		if t.IsMulti() || t == TypeGeometryCollection {
			comps := g.Components()
			for i := len(comps) - 1; i >= 0; i-- {
				if comps[i] != nil {
					stack = append(stack, comps[i])
				}
			}
			continue
		}
		leaves = append(leaves, g)
		kinds[t] = struct{}{}
		kind = t
	}

	if len(leaves) == 0 {
		return nil
	}
	if len(kinds) == 1 {
		if len(leaves) == 1 {
			return leaves[0]
		}
		if m, err := NewMulti(kind, leaves); err == nil {
			return m
		}
	}
	gc, _ := NewGeometryCollection(leaves...)
	return gc
}

// Build combines geometries into a single container without flattening.
// No input yields an empty GeometryCollection and a single geometry passes
// through unchanged. A uniform run of one atomic kind becomes the natural
// multi container, but only when no member carries a payload or is empty;
// payloads and empty members would be silently absorbed by a multi, so
// those runs stay a GeometryCollection. Multi members, collection members
// and mixed kinds always wrap in a GeometryCollection.
func Build(geoms ...Geometry) (Geometry, error) {
	switch len(geoms) {
	case 0:
		return NewGeometryCollection()
	case 1:
		if geoms[0] == nil {
			return nil, errors.NewInvalidGeometry("GeometryCollection", "nil component")
		}
		return geoms[0], nil
	}

	uniform := true
	payload := false
	empty := false
	kind := NoType
	for _, g := range geoms {
		if g == nil {
			return nil, errors.NewInvalidGeometry("GeometryCollection", "nil component")
		}
		if kind == NoType {
			kind = g.GeomType()
		} else if g.GeomType() != kind {
			uniform = false
		}
		if g.Data() != nil {
			payload = true
		}
		if g.IsEmpty() {
			empty = true
		}
	}
	if uniform && kind.IsAtomic() && !payload && !empty {
		if m, err := NewMulti(kind, geoms); err == nil {
			return m, nil
		}
		// The multi constructor rejected a member; a plain collection
		// can still hold it.
	}
	return NewGeometryCollection(geoms...)
}
