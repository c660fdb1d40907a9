package geomio

import "strings"

// HasArg reports whether the trailing codec args contain the given hint,
// compared case-insensitively. Hints are positional strings ("hex",
// "grid", numeric precisions) passed through from the detector or the
// caller.
func HasArg(args []string, hint string) bool {
	for _, a := range args {
		if strings.EqualFold(a, hint) {
			return true
		}
	}
	return false
}
