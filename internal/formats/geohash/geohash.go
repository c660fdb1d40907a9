// Package geohash reads and writes base-32 geohash cell identifiers.
//
// A geohash names a rectangular cell by interleaving the bits of
// successive longitude and latitude bisections of the world box, five
// bits per character, longitude first. Reading returns the cell center as
// a Point, rounded to the decimal places the cell size supports, or the
// full cell as a Polygon when the "grid" arg is passed. Writing a Point
// emits the hash for the cell containing it; any other geometry gets the
// longest hash shared by its bounding-box corners.
package geohash

import "github.com/geomkit/geomkit/core/geomio"

// alphabet is the canonical base-32 table. The letters a, i, l and o are
// excluded.
const alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// maxLength bounds hash length on write. Thirteen characters already
// exceed float64 coordinate resolution.
const maxLength = 13

// Codec reads and writes geohash strings under the "geohash" tag.
type Codec struct{}

func init() {
	geomio.Register("geohash", &Codec{})
}

// cell is a latitude/longitude rectangle being narrowed by bisection.
type cell struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func worldCell() cell {
	return cell{minLat: -90, maxLat: 90, minLon: -180, maxLon: 180}
}

func (c cell) midLat() float64 { return (c.minLat + c.maxLat) / 2 }

func (c cell) midLon() float64 { return (c.minLon + c.maxLon) / 2 }

// latError and lonError are the half-heights of the cell, the distance
// from center to edge.
func (c cell) latError() float64 { return (c.maxLat - c.minLat) / 2 }

func (c cell) lonError() float64 { return (c.maxLon - c.minLon) / 2 }
