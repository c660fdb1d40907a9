// Package gpx reads and writes GPS Exchange Format documents.
//
// Reading collects waypoints as points, each track segment and each route
// as a line string, and reduces the harvest to its natural container.
// Latitude and longitude live in attributes (latitude is Y, longitude is
// X) and an ele child supplies the altitude. Writing wraps the output in
// a gpx element; points become waypoints, line strings become
// single-segment tracks and polygon rings each become a track, since the
// format has no area type.
package gpx

import "github.com/geomkit/geomkit/core/geomio"

// Codec reads and writes GPX under the "gpx" tag.
type Codec struct{}

func init() {
	geomio.Register("gpx", &Codec{})
}
