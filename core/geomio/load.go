package geomio

import (
	"fmt"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
)

// Load turns anything resembling geometry input into a Geometry: an
// already-built Geometry is returned unchanged, raw bytes or a string
// are parsed, and a slice of any of those is loaded element-wise and
// combined with geom.Build. An empty format tag means detect per
// element; an unknown tag is an UnsupportedFormatError.
func Load(input any, format string, args ...string) (geom.Geometry, error) {
	switch v := input.(type) {
	case nil:
		return nil, errors.NewParse("input", nil, "no input given")
	case geom.Geometry:
		return v, nil
	case []byte:
		return decode(v, format, args)
	case string:
		return decode([]byte(v), format, args)
	case []geom.Geometry:
		return loadAll(anySlice(v), format, args)
	case [][]byte:
		return loadAll(anySlice(v), format, args)
	case []string:
		return loadAll(anySlice(v), format, args)
	case []any:
		return loadAll(v, format, args)
	}
	return nil, errors.NewParse("input", nil, fmt.Sprintf("cannot load a %T", input))
}

// Decode parses one encoded geometry, detecting its format.
func Decode(data []byte) (geom.Geometry, error) {
	return decode(data, "", nil)
}

// DecodeFormat parses one encoded geometry with an explicit format tag.
func DecodeFormat(data []byte, format string, args ...string) (geom.Geometry, error) {
	return decode(data, format, args)
}

// Encode serializes a geometry with an explicit format tag.
func Encode(g geom.Geometry, format string, args ...string) ([]byte, error) {
	c, err := Get(format)
	if err != nil {
		return nil, err
	}
	return c.Write(g, args...)
}

func decode(data []byte, format string, args []string) (geom.Geometry, error) {
	if format == "" {
		tag, hint := Detect(data)
		if tag == "" {
			return nil, errors.NewParse("input", data, "could not detect format")
		}
		format = tag
		if hint != "" {
			args = append(args[:len(args):len(args)], hint)
		}
	}
	c, err := Get(format)
	if err != nil {
		return nil, err
	}
	return c.Read(data, args...)
}

func loadAll(items []any, format string, args []string) (geom.Geometry, error) {
	geoms := make([]geom.Geometry, 0, len(items))
	for _, item := range items {
		g, err := Load(item, format, args...)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g)
	}
	return geom.Build(geoms...)
}

func anySlice[T any](v []T) []any {
	out := make([]any, len(v))
	for i := range v {
		out[i] = v[i]
	}
	return out
}
