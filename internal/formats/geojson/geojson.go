// Package geojson reads and writes GeoJSON geometries, features, and
// feature collections.
//
// Feature properties travel as the geometry's opaque data payload: a
// Feature reads as its geometry with the properties attached, and a
// geometry carrying a payload writes back out as a Feature. A
// FeatureCollection reads as the reduction of its member geometries; a
// collection holding payload-bearing members writes as a
// FeatureCollection. The legacy "crs" member is honored both ways so an
// SRID survives the trip.
package geojson

import (
	"encoding/json"

	"github.com/geomkit/geomkit/core/geomio"
)

// maxNesting bounds collection recursion on read.
const maxNesting = 100

// Codec reads and writes GeoJSON under the "json" and "geojson" tags.
type Codec struct{}

func init() {
	c := &Codec{}
	geomio.Register("json", c)
	geomio.Register("geojson", c)
}

// object is the one JSON shape shared by geometries, features, and
// feature collections; which fields are live depends on Type.
type object struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*object       `json:"geometries,omitempty"`
	Geometry    *object         `json:"geometry,omitempty"`
	Properties  any             `json:"properties,omitempty"`
	Features    []*object       `json:"features,omitempty"`
	CRS         *refSystem      `json:"crs,omitempty"`
}

// refSystem is the pre-RFC 7946 named coordinate reference system
// member.
type refSystem struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// objectOut is the write-side counterpart of object. Sub-documents are
// pre-marshaled so empty geometry and feature lists still serialize as
// [] instead of being dropped by omitempty.
type objectOut struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  json.RawMessage `json:"geometries,omitempty"`
	Geometry    json.RawMessage `json:"geometry,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	Features    json.RawMessage `json:"features,omitempty"`
	CRS         *refSystem      `json:"crs,omitempty"`
}
