// Package osm reads and writes OpenStreetMap XML.
//
// Reading resolves the document's node, way and relation layers into
// geometries: multipolygon and boundary relations assemble their member
// ways into polygons, remaining closed ways become polygons, remaining
// open ways become line strings, and nodes no way references become
// points. The harvest reduces to its natural container. Missing
// referenced elements are skipped, since partial extracts are the norm.
//
// Writing emits a fresh document with editor-style negative ids: every
// distinct coordinate becomes one node, line strings and rings become
// ways, and polygons with holes or multiple shells become a multipolygon
// relation. OSM has no altitude or measure slot, so Z and M are dropped.
package osm

import "github.com/geomkit/geomkit/core/geomio"

// Codec reads and writes OSM XML under the "osm" tag.
type Codec struct{}

func init() {
	geomio.Register("osm", &Codec{})
}
