// Package geomio provides the codec contract, the format registry, the
// byte-sniffing format detector and the Load entrypoint that ties them
// together. Codec implementations live under internal/formats and register
// themselves here when imported; the root geomkit package imports the whole
// set so that a plain import wires every format.
package geomio

import (
	"sort"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Codec is the uniform two-operation contract every format implements.
// Trailing string args carry sub-format hints, exactly as the detector
// communicates them: "hex" for hex-encoded binary input, "grid" for a
// geohash cell polygon, numeric strings for precision.
type Codec interface {
	// Read parses one encoded geometry (or a batch, for formats carrying
	// multiple records) into a fully validated tree.
	Read(data []byte, args ...string) (geom.Geometry, error)

	// Write serializes a geometry to the format's representation. Write
	// is args-compatible with Read: Read(Write(g)) is structurally equal
	// to g for every round-tripping format.
	Write(g geom.Geometry, args ...string) ([]byte, error)
}

// registry maps short format tags to their codec. Registration happens in
// the format packages' init functions; after startup the map is read-only,
// so no locking is needed.
var registry = make(map[string]Codec)

// Register adds a codec under the given tag. Registering an empty tag or a
// nil codec is a no-op; registering a tag twice keeps the last codec.
func Register(tag string, c Codec) {
	if tag == "" || c == nil {
		return
	}
	registry[tag] = c
}

// Get returns the codec registered under tag, or an
// UnsupportedFormatError when the tag is unknown.
func Get(tag string) (Codec, error) {
	c, ok := registry[tag]
	if !ok {
		return nil, errors.NewUnsupportedFormat(tag)
	}
	return c, nil
}

// Has reports whether a codec is registered under tag.
func Has(tag string) bool {
	_, ok := registry[tag]
	return ok
}

// Formats returns the registered tags in sorted order.
func Formats() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
