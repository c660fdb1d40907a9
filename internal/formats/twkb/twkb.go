// Package twkb reads and writes TWKB, the compact variable-length binary
// geometry encoding.
//
// A TWKB stream opens with two header bytes. The first carries the
// geometry kind in its low nibble and the zig-zag-encoded XY precision in
// its high nibble. The second is a flag set: bounding box present, byte
// size present, id list present, extra Z/M dimension byte present, and
// geometry empty. Coordinates are stored as zig-zag varint deltas against
// the previous value in the same dimension, scaled to integers by
// 10^precision; the first value is a delta against zero, and the running
// state carries across rings and members. Collections nest complete TWKB
// geometries, each with fresh headers and delta state.
//
// The reader consumes and discards id lists and closes unclosed polygon
// rings. The writer emits full rings and never writes an id list. Pass
// "hex" to either operation for hex-encoded text; Write also accepts
// "bbox" and "size" for the optional prefixes and a bare integer for the
// XY precision.
package twkb

import "github.com/geomkit/geomkit/core/geomio"

const (
	flagBBox     = 0x01
	flagSize     = 0x02
	flagIDList   = 0x04
	flagExtended = 0x08
	flagEmpty    = 0x10

	extHasZ = 0x01
	extHasM = 0x02

	// defaultPrecision is the XY decimal-digit count used when the caller
	// does not pass one. Five digits is roughly metre accuracy in degrees.
	defaultPrecision = 5

	// maxNesting bounds collection recursion so hostile inputs cannot
	// exhaust the stack.
	maxNesting = 100
)

// Codec reads and writes compact delta-encoded geometries under the
// "twkb" tag.
type Codec struct{}

func init() {
	geomio.Register("twkb", &Codec{})
}

func zigzag(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }

func unzigzag(v uint64) int64 { return int64(v>>1) ^ -int64(v&1) }
