package scrape

import (
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var (
	tagExpr   = regexp.MustCompile(`<[^>]*>`)
	spaceExpr = regexp.MustCompile(` {2,}`)
)

// CleanText strips markup from one or more text/markup fragments and joins
// them into a single clean string: tags removed, newlines and tabs dropped,
// runs of spaces collapsed, ends trimmed. Empty fragments are skipped.
func CleanText(fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f == "" {
			continue
		}
		parts = append(parts, tagExpr.ReplaceAllString(f, ""))
	}

	joined := strings.Join(parts, " ")
	joined = strings.NewReplacer("\n", "", "\t", "", "\r", "").Replace(joined)
	joined = spaceExpr.ReplaceAllString(joined, " ")
	return strings.TrimSpace(joined)
}

// CleanNodes serializes each node back to markup and runs CleanText over
// the results. Nil nodes are skipped.
func CleanNodes(nodes []*html.Node) string {
	fragments := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		fragments = append(fragments, htmlquery.OutputHTML(n, true))
	}
	return CleanText(fragments...)
}

// HTMLString returns the markup-with-tags serialization of a node.
func HTMLString(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.OutputHTML(n, true)
}
