package geomio

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/geomkit/geomkit/core/geom"
)

// Detect sniffs the format of an encoded geometry from its leading bytes
// and returns the registry tag plus an optional sub-format hint ("hex"
// for hex-encoded binary). Empty or whitespace-only input returns ("",
// ""). Detection never fails; an unrecognized byte soup falls through to
// the compact binary format and the codec reports the real problem.
//
// The priority order is load-bearing: binary headers before text, the
// hex binary header before the generic hex fallback, and WKT keywords
// before XML sniffing.
func Detect(data []byte) (format, hint string) {
	b := bytes.TrimSpace(data)
	if len(b) == 0 {
		return "", ""
	}

	if b[0] == 0 || b[0] == 1 {
		if tag := wkbTag(b); tag != "" {
			return tag, ""
		}
	}
	if len(b) > 12 && b[0] == '0' && (b[1] == '0' || b[1] == '1') {
		if tag := hexWKBTag(b); tag != "" {
			return tag, "hex"
		}
	}
	if b[0] == '{' {
		return "json", ""
	}
	if bytes.HasPrefix(b, []byte("SRID=")) {
		return "ewkt", ""
	}
	if hasKindKeyword(b) {
		return "wkt", ""
	}
	if b[0] == '<' {
		if tag := xmlDialect(b); tag != "" {
			return tag, ""
		}
	}
	return compactOrHash(b)
}

// wkbTag reads the five-byte binary header: an endianness marker and a
// type word whose low nibble must be one of the seven kinds. The SRID
// mask bit picks the extended variant.
func wkbTag(b []byte) string {
	if len(b) < 5 {
		return ""
	}
	var code uint32
	if b[0] == 0 {
		code = binary.BigEndian.Uint32(b[1:5])
	} else {
		code = binary.LittleEndian.Uint32(b[1:5])
	}
	return tagForTypeWord(code)
}

// hexWKBTag applies the same header check to the hex transport form used
// by PostGIS: two hex chars of endianness, eight of type word.
func hexWKBTag(b []byte) string {
	var header [5]byte
	if _, err := hex.Decode(header[:], b[:10]); err != nil {
		return ""
	}
	return wkbTag(header[:])
}

func tagForTypeWord(code uint32) string {
	if !geom.Type(code & 0xF).IsValid() {
		return ""
	}
	if code&0x20000000 != 0 {
		return "ewkb"
	}
	return "wkb"
}

var kindKeywords = func() map[string]bool {
	m := make(map[string]bool, 7)
	for t := geom.TypePoint; t <= geom.TypeGeometryCollection; t++ {
		m[strings.ToUpper(t.String())] = true
	}
	return m
}()

// hasKindKeyword reports whether the input opens with a geometry kind
// keyword, with or without a Z/M/ZM dimension suffix, which is how every
// well-known text document starts.
func hasKindKeyword(b []byte) bool {
	n := 0
	for n < len(b) && isLetter(b[n]) {
		n++
	}
	if n == 0 || n == len(b) {
		return false
	}
	token := strings.ToUpper(string(b[:n]))
	if kindKeywords[token] {
		return true
	}
	for _, suffix := range []string{"ZM", "Z", "M"} {
		if base, ok := strings.CutSuffix(token, suffix); ok && kindKeywords[base] {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// shortTag matches any opening tag with a short lowercase name, the
// shape of GeoRSS Simple tags and of the feed wrappers around them.
var shortTag = regexp.MustCompile(`(?i)<[a-z]{1,20}[\s>:/]`)

// xmlDialect scans the first kilobyte for dialect markers. The
// "<coordinate" probe catches bare KML fragments that never mention a
// kml root element.
func xmlDialect(b []byte) string {
	window := b
	if len(window) > 1024 {
		window = window[:1024]
	}
	w := strings.ToLower(string(window))
	switch {
	case strings.Contains(w, "<kml"), strings.Contains(w, "<coordinate"):
		return "kml"
	case strings.Contains(w, "<gpx"):
		return "gpx"
	case strings.Contains(w, "<osm"):
		return "osm"
	case shortTag.MatchString(w):
		return "georss"
	}
	return ""
}

const hashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// compactOrHash is the final fallback: a short string drawn entirely
// from the base-32 hash alphabet is a geohash, a hex window is the
// hex-encoded compact binary format, anything else the raw one.
func compactOrHash(b []byte) (string, string) {
	if len(b) <= 13 && allHashChars(b) {
		return "geohash", ""
	}
	window := b
	if len(window) > 8 {
		window = window[:8]
	}
	if allHexChars(window) {
		return "twkb", "hex"
	}
	return "twkb", ""
}

func allHashChars(b []byte) bool {
	for _, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if strings.IndexByte(hashAlphabet, c) < 0 {
			return false
		}
	}
	return true
}

func allHexChars(b []byte) bool {
	for _, c := range b {
		hexDigit := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		if !hexDigit {
			return false
		}
	}
	return true
}
