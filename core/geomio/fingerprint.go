package geomio

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Fingerprint returns the BLAKE3-256 digest of the geometry's canonical
// little-endian extended WKB encoding as a lowercase hex string.
// Structurally equal geometries with the same SRID share a fingerprint,
// which is what the store uses for content-addressed dedup.
func Fingerprint(g geom.Geometry) (string, error) {
	if g == nil {
		return "", errors.NewInvalidGeometry("", "cannot fingerprint a nil geometry")
	}
	data, err := Encode(g, "ewkb")
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
