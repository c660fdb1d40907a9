package wkt

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// wktText is the grammar root: an optional SRID clause followed by one
// geometry node.
//
//nolint:govet // participle grammar tags are not standard struct tags
type wktText struct {
	SRID *sridClause `( @@ ";" )?`
	Node *wktNode    `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type sridClause struct {
	Value int `"SRID" "=" @Number`
}

// wktNode is a typed geometry: a keyword, optional bare words (dimension
// suffixes and EMPTY), and an optional parenthesized body. "POINT Z EMPTY"
// parses as Keyword=POINT Words=[Z EMPTY]; "POINTZ (1 2 3)" carries the
// suffix inside the keyword itself.
//
//nolint:govet // participle grammar tags are not standard struct tags
type wktNode struct {
	Keyword string   `@Ident`
	Words   []string `@Ident*`
	Body    *wktBody `( "(" @@ ")" )?`
}

// wktBody is a comma-separated item list.
//
//nolint:govet // participle grammar tags are not standard struct tags
type wktBody struct {
	Items []*wktItem `@@ ( "," @@ )*`
}

// wktItem is one element of a body: a nested typed node (collection
// members, bare EMPTY), a parenthesized group (rings, multi members), or a
// coordinate tuple.
//
//nolint:govet // participle grammar tags are not standard struct tags
type wktItem struct {
	Node   *wktNode  `  @@`
	Sub    *wktBody  `| "(" @@ ")"`
	Coords []float64 `| @Number+`
}

var wktLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},
	{Name: "Punct", Pattern: `[(),;=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var wktParser = participle.MustBuild[wktText](
	participle.Lexer(wktLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
)
