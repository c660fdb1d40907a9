package geohash

import (
	"math"
	"strconv"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Write encodes g as a geohash. A bare integer arg fixes the hash
// length; without one the length adapts to the decimal places present in
// the coordinates. Geometries other than points hash to the longest
// prefix shared by their bounding-box corners.
func (c *Codec) Write(g geom.Geometry, args ...string) ([]byte, error) {
	if g == nil {
		return nil, errors.NewInvalidGeometry("geohash", "cannot encode nil geometry")
	}
	length := 0
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			length = n
		}
	}
	if length > maxLength {
		length = maxLength
	}

	if p, ok := g.(*geom.Point); ok && !p.IsEmpty() {
		if err := checkDomain(p.Y(), p.X()); err != nil {
			return nil, err
		}
		return []byte(encodePoint(p.Y(), p.X(), length)), nil
	}

	box := g.BBox()
	if box == nil {
		return nil, errors.NewInvalidGeometry(g.GeomType().String(),
			"cannot encode an empty geometry as a geohash")
	}
	if err := checkDomain(box.MinY, box.MinX); err != nil {
		return nil, err
	}
	if err := checkDomain(box.MaxY, box.MaxX); err != nil {
		return nil, err
	}
	// The hash of a shape is the smallest cell containing it: the shared
	// prefix of the opposite corner hashes.
	northwest := encodePoint(box.MaxY, box.MinX, maxLength)
	southeast := encodePoint(box.MinY, box.MaxX, maxLength)
	prefix := commonPrefix(northwest, southeast)
	if prefix == "" {
		return nil, errors.NewInvalidGeometry(g.GeomType().String(),
			"geometry spans more than one top-level geohash cell")
	}
	if length > 0 && length < len(prefix) {
		prefix = prefix[:length]
	}
	return []byte(prefix), nil
}

func checkDomain(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return errors.NewInvalidGeometry("Point", "coordinates outside the geohash domain")
	}
	return nil
}

// encodePoint narrows the world cell around the coordinate, emitting five
// bisection bits per character, longitude first.
func encodePoint(lat, lon float64, length int) string {
	if length <= 0 {
		length = adaptiveLength(lat, lon)
	}
	cl := worldCell()
	var sb strings.Builder
	lonBit := true
	for sb.Len() < length {
		v := 0
		for mask := 0x10; mask > 0; mask >>= 1 {
			if lonBit {
				if lon >= cl.midLon() {
					v |= mask
					cl.minLon = cl.midLon()
				} else {
					cl.maxLon = cl.midLon()
				}
			} else {
				if lat >= cl.midLat() {
					v |= mask
					cl.minLat = cl.midLat()
				} else {
					cl.maxLat = cl.midLat()
				}
			}
			lonBit = !lonBit
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// adaptiveLength picks the shortest hash whose cell error undercuts half
// of the last decimal place present in the coordinates.
func adaptiveLength(lat, lon float64) int {
	digits := decimalDigits(lat)
	if d := decimalDigits(lon); d > digits {
		digits = d
	}
	threshold := math.Pow10(-digits) / 2
	for n := 1; n < maxLength; n++ {
		lonBits := (5*n + 1) / 2
		latBits := 5 * n / 2
		lonErr := 180 / math.Pow(2, float64(lonBits))
		latErr := 90 / math.Pow(2, float64(latBits))
		if lonErr < threshold && latErr < threshold {
			return n
		}
	}
	return maxLength
}

func decimalDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}
