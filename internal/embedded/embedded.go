// Package embedded registers every built-in codec with the format registry.
//
// Importing this package for side effects is the supported way to make all
// codecs available:
//
//	import _ "github.com/geomkit/geomkit/internal/embedded"
package embedded

import (
	_ "github.com/geomkit/geomkit/internal/formats/geohash"
	_ "github.com/geomkit/geomkit/internal/formats/geojson"
	_ "github.com/geomkit/geomkit/internal/formats/georss"
	_ "github.com/geomkit/geomkit/internal/formats/gpx"
	_ "github.com/geomkit/geomkit/internal/formats/kml"
	_ "github.com/geomkit/geomkit/internal/formats/osm"
	_ "github.com/geomkit/geomkit/internal/formats/twkb"
	_ "github.com/geomkit/geomkit/internal/formats/wkb"
	_ "github.com/geomkit/geomkit/internal/formats/wkt"
)
