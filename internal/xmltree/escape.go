package xmltree

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Escape escapes special characters for XML content using the standard
// library's full escaping rules.
func Escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// EscapeText escapes only the basic XML entities for text content. This is
// a lighter-weight alternative to Escape for the writer hot path.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeAttr escapes text for use in XML attribute values. Includes quote
// escaping in addition to the basic entities.
func EscapeAttr(s string) string {
	s = EscapeText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
