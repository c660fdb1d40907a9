// Package xmltree provides pure Go XML parsing, searching and escaping for
// the XML geometry codecs. It wraps xmlquery so the codecs share one
// document model and one set of search helpers instead of each driving
// encoding/xml by hand.
//
// Element search is by local name and case-insensitive: feeds in the wild
// mix <Point>, <point> and <kml:Point> freely, and the codecs accept all
// of them. XPath remains available for the structured lookups the OSM
// codec needs.
//
// Security note: xmlquery parses with encoding/xml underneath, which does
// not fetch external entities, so XXE does not apply here.
package xmltree

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/geomkit/geomkit/core/errors"
)

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is an element node inside a Document.
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data into a Document. Malformed input returns an
// errors.XMLError.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewXML("parsing document", err)
	}
	return &Document{root: root}, nil
}

// Root returns the document's root element, or nil for an empty document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath runs an XPath query over the whole document.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, errors.NewXML("invalid xpath "+expr, err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, errors.NewXML("xpath query failed", err)
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst runs an XPath query and returns the first match, nil when
// nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, errors.NewXML("invalid xpath "+expr, err)
	}
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, errors.NewXML("xpath query failed", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// FindAll returns every element in the document whose local name matches,
// ignoring case and namespace prefix, in document order.
func (d *Document) FindAll(name string) []*Node {
	if d.root == nil {
		return nil
	}
	return findAll(d.root, name, nil)
}

// First returns the first element whose local name matches, or nil.
func (d *Document) First(name string) *Node {
	all := d.FindAll(name)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func findAll(n *xmlquery.Node, name string, out []*Node) []*Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && strings.EqualFold(child.Data, name) {
			out = append(out, &Node{node: child})
		}
		out = findAll(child, name, out)
	}
	return out
}

// Name returns the element's local name, without any namespace prefix.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the concatenated text content of the node and its
// descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Children returns the direct element children.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// ChildrenNamed returns the direct element children whose local name
// matches, ignoring case.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && strings.EqualFold(child.Data, name) {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// FirstChildNamed returns the first direct child with the given local
// name, or nil.
func (n *Node) FirstChildNamed(name string) *Node {
	children := n.ChildrenNamed(name)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// FindAll returns every descendant element whose local name matches,
// ignoring case, in document order.
func (n *Node) FindAll(name string) []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	return findAll(n.node, name, nil)
}

// First returns the first matching descendant, or nil.
func (n *Node) First(name string) *Node {
	all := n.FindAll(name)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Attr returns the value of the named attribute, matching the local name
// case-insensitively. Missing attributes return "".
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value
		}
	}
	return ""
}

// Attributes returns all attributes keyed by local name.
func (n *Node) Attributes() map[string]string {
	if n == nil || n.node == nil {
		return nil
	}
	attrs := make(map[string]string, len(n.node.Attr))
	for _, attr := range n.node.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}
