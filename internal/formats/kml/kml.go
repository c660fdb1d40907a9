// Package kml reads and writes KML geometry fragments and documents.
//
// Reading harvests the geometry children of every Placemark, or the root
// element itself when the document is a bare geometry fragment, and
// reduces the harvest to its natural container; a MultiGeometry reduces
// the same way. Coordinate tuples are comma-separated
// longitude,latitude[,altitude] triples split on whitespace. Writing
// emits a bare geometry fragment; pass a namespace prefix as an arg to
// qualify the tags.
package kml

import "github.com/geomkit/geomkit/core/geomio"

// maxNesting bounds MultiGeometry recursion on read.
const maxNesting = 100

// Codec reads and writes KML under the "kml" tag.
type Codec struct{}

func init() {
	geomio.Register("kml", &Codec{})
}
