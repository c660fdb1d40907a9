// Package wkt implements the well-known-text geometry codec and its
// SRID-prefixed extended variant ("SRID=4326;POINT (1 2)").
//
// The reader is grammar-driven and deliberately forgiving about surface
// syntax: keywords match in any case, dimension suffixes may be attached
// ("POINTZ") or separate ("POINT Z"), multi-point members may carry inner
// parentheses or not, and EMPTY is accepted both for whole geometries and
// for members. An untagged three-number tuple reads as Z, matching the
// spatial-database convention. The writer always emits the canonical
// uppercase spaced form.
package wkt

import (
	"github.com/geomkit/geomkit/core/geomio"
)

// maxNesting bounds parenthesis nesting so adversarial input cannot
// exhaust the parser's stack. The bound is checked iteratively before the
// grammar runs.
const maxNesting = 100

// Codec reads and writes well-known text. The extended form emits the
// SRID= prefix when the geometry carries a nonzero SRID; the plain form
// drops it. Both read either form.
type Codec struct {
	extended bool
}

func (c *Codec) tag() string {
	if c.extended {
		return "ewkt"
	}
	return "wkt"
}

func init() {
	geomio.Register("wkt", &Codec{})
	geomio.Register("ewkt", &Codec{extended: true})
}
