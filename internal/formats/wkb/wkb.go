// Package wkb implements the well-known-binary geometry codec and its
// SRID-carrying extended variant.
//
// Layout: byte 0 is the byte order (0 big-endian, 1 little-endian),
// followed by a 32-bit type word whose low nibble is the base kind
// (1 Point .. 7 GeometryCollection). Z, M and SRID presence ride in the
// high bits PostGIS-style; the reader additionally accepts the ISO
// convention of adding 1000/2000/3000 to the base code. Coordinates are
// 8-byte IEEE doubles; container kinds nest complete geometries with
// their own headers. An empty point is encoded as a NaN/NaN pair.
//
// The "hex" arg switches both directions to the two-digits-per-byte
// ASCII hex transport used by databases.
package wkb

import (
	"github.com/geomkit/geomkit/core/geomio"
)

// Type word flag bits in the extended convention.
const (
	flagZ    = 0x80000000
	flagM    = 0x40000000
	flagSRID = 0x20000000
)

// maxNesting bounds reader recursion so adversarial deeply nested
// collections cannot exhaust the stack.
const maxNesting = 100

// Codec reads and writes well-known binary. The extended form writes the
// SRID flag and field; the plain form drops the SRID on write. Both read
// either form.
type Codec struct {
	extended bool
}

// tag returns the registry tag, used in parse errors.
func (c *Codec) tag() string {
	if c.extended {
		return "ewkb"
	}
	return "wkb"
}

func init() {
	geomio.Register("wkb", &Codec{})
	geomio.Register("ewkb", &Codec{extended: true})
}
