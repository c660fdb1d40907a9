// Package georss reads and writes GeoRSS Simple geometries.
//
// Reading harvests every point, line, polygon and box element in the
// document, feed wrappers included, and reduces the harvest to its
// natural container. Coordinate text is whitespace-separated pairs in
// latitude longitude order, the reverse of the X, Y model order. A box
// becomes its rectangle polygon, and an unclosed polygon ring is closed
// on the way in. Writing emits unprefixed tags unless a namespace prefix
// arg is given; polygon holes and measures have no representation and
// are dropped.
package georss

import "github.com/geomkit/geomkit/core/geomio"

// Codec reads and writes GeoRSS Simple under the "georss" tag.
type Codec struct{}

func init() {
	geomio.Register("georss", &Codec{})
}
