// Package scrape holds the toolkit shared by every outlet adapter: document
// fetching, path-based text/attribute extraction, link classification, text
// cleanup and record validation.
package scrape

import (
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// defaultNamespaces covers the prefixes the outlet feeds actually use.
// Adapters may override entries (Engadget declares dc over https).
var defaultNamespaces = map[string]string{
	"dc":         "http://purl.org/dc/elements/1.1/",
	"media":      "http://search.yahoo.com/mrss/",
	"feedburner": "http://rssnamespace.org/feedburner/ext/1.0",
}

// Value is the result of an extraction. Exactly one match collapses to a
// scalar; callers must branch on Scalar before consuming, since the same
// path can yield either shape depending on the document.
type Value struct {
	items []string
}

func (v Value) Empty() bool { return len(v.items) == 0 }

// Scalar reports whether the extraction matched exactly one node.
func (v Value) Scalar() bool { return len(v.items) == 1 }

// String returns the collapsed scalar, or the first match when there are
// several, or "" when there are none.
func (v Value) String() string {
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// List returns all matches in document order.
func (v Value) List() []string { return v.items }

// XMLExtractor evaluates path expressions relative to feed nodes, with a
// namespace table merged from the defaults and per-adapter overrides.
type XMLExtractor struct {
	ns map[string]string
}

func NewXMLExtractor(overrides map[string]string) *XMLExtractor {
	ns := make(map[string]string, len(defaultNamespaces)+len(overrides))
	for prefix, uri := range defaultNamespaces {
		ns[prefix] = uri
	}
	for prefix, uri := range overrides {
		ns[prefix] = uri
	}
	return &XMLExtractor{ns: ns}
}

// Text returns the text content of descendants of node matching path.
func (e *XMLExtractor) Text(node *xmlquery.Node, path string) Value {
	return e.query(node, path, "")
}

// Attr returns the named attribute of descendants of node matching path.
func (e *XMLExtractor) Attr(node *xmlquery.Node, path, attr string) Value {
	return e.query(node, path, attr)
}

func (e *XMLExtractor) query(node *xmlquery.Node, path, attr string) Value {
	expr, err := xpath.CompileWithNS(".//"+path, e.ns)
	if err != nil {
		return Value{}
	}

	var items []string
	for _, n := range xmlquery.QuerySelectorAll(node, expr) {
		if attr != "" {
			items = append(items, n.SelectAttr(attr))
		} else {
			items = append(items, n.InnerText())
		}
	}
	return Value{items: items}
}

// HTMLText extracts text content from descendants of an HTML node matching
// path. Pages carry no namespaces, so no table is involved.
func HTMLText(node *html.Node, path string) Value {
	return htmlQuery(node, path, "")
}

// HTMLAttr extracts the named attribute from descendants matching path.
func HTMLAttr(node *html.Node, path, attr string) Value {
	return htmlQuery(node, path, attr)
}

func htmlQuery(node *html.Node, path, attr string) Value {
	nodes, err := htmlquery.QueryAll(node, ".//"+path)
	if err != nil {
		return Value{}
	}

	var items []string
	for _, n := range nodes {
		if attr != "" {
			items = append(items, htmlquery.SelectAttr(n, attr))
		} else {
			items = append(items, htmlquery.InnerText(n))
		}
	}
	return Value{items: items}
}
