package geohash

import (
	"fmt"
	"math"
	"strings"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
)

// Read decodes a geohash. The result is the cell-center Point, or the
// whole cell as a Polygon when the "grid" arg is passed.
func (c *Codec) Read(data []byte, args ...string) (geom.Geometry, error) {
	hash := strings.ToLower(strings.TrimSpace(string(data)))
	cl, err := decode(hash, data)
	if err != nil {
		return nil, err
	}
	if geomio.HasArg(args, "grid") {
		return gridPolygon(cl)
	}
	// Round the center to the decimals the cell size supports so a
	// short hash decodes to "57.6", not the center of its wide cell to
	// fifteen digits.
	lat := roundTo(cl.midLat(), decimalsFor(cl.latError()))
	lon := roundTo(cl.midLon(), decimalsFor(cl.lonError()))
	return geom.NewPoint(lon, lat), nil
}

// decode narrows the world cell one bit at a time. Even bits bisect
// longitude, odd bits latitude.
func decode(hash string, src []byte) (cell, error) {
	if hash == "" {
		return cell{}, errors.NewParse("geohash", src, "empty input")
	}
	cl := worldCell()
	lon := true
	for i := 0; i < len(hash); i++ {
		v := strings.IndexByte(alphabet, hash[i])
		if v < 0 {
			return cell{}, errors.NewParse("geohash", src,
				fmt.Sprintf("character %q is not in the geohash alphabet", hash[i]))
		}
		for mask := 0x10; mask > 0; mask >>= 1 {
			if lon {
				if v&mask != 0 {
					cl.minLon = cl.midLon()
				} else {
					cl.maxLon = cl.midLon()
				}
			} else {
				if v&mask != 0 {
					cl.minLat = cl.midLat()
				} else {
					cl.maxLat = cl.midLat()
				}
			}
			lon = !lon
		}
	}
	return cl, nil
}

// gridPolygon returns the cell rectangle, wound northwest first.
func gridPolygon(cl cell) (*geom.Polygon, error) {
	ring, err := geom.NewLineString(
		geom.NewPoint(cl.minLon, cl.maxLat),
		geom.NewPoint(cl.maxLon, cl.maxLat),
		geom.NewPoint(cl.maxLon, cl.minLat),
		geom.NewPoint(cl.minLon, cl.minLat),
		geom.NewPoint(cl.minLon, cl.maxLat),
	)
	if err != nil {
		return nil, err
	}
	return geom.NewPolygon(ring)
}

// decimalsFor maps a cell half-size to the decimal places worth keeping:
// one digit for the widest cells, six once the error drops below 1e-6.
func decimalsFor(err float64) int {
	d := int(math.Round(-math.Log10(err)))
	if d < 1 {
		d = 1
	}
	return d
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
