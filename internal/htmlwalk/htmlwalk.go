// Package htmlwalk provides HTML fragment traversal helpers for the
// rendering pipeline: parsing a fragment, rewriting URL-bearing attributes,
// and serializing it back without a document wrapper.
package htmlwalk

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteFunc receives the element tag, attribute key, and current value,
// and returns the replacement value.
type RewriteFunc func(tag, attr, val string) string

// urlAttrs maps element tags to the attribute holding an external reference.
// Only link and image targets carry externally supplied URLs in rendered
// markup; script and style elements never survive rendering.
var urlAttrs = map[string]string{
	"a":   "href",
	"img": "src",
}

// RewriteURLAttrs parses an HTML fragment, passes every a[href] and
// img[src] value through rewrite, and returns the re-rendered fragment.
func RewriteURLAttrs(fragment string, rewrite RewriteFunc) (string, error) {
	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	walk(root, func(n *html.Node) {
		attr, ok := urlAttrs[n.Data]
		if !ok {
			return
		}
		for i := range n.Attr {
			if n.Attr[i].Key == attr {
				n.Attr[i].Val = rewrite(n.Data, attr, n.Attr[i].Val)
			}
		}
	})
	return renderFragment(root)
}

// parseFragment parses fragment in a body context and wraps the resulting
// nodes in a synthetic document node for uniform traversal.
func parseFragment(fragment string) (*html.Node, error) {
	bodyCtx := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyCtx)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// renderFragment serializes the children of the synthetic root, avoiding
// the <html><body> wrapper a full-document render would add.
func renderFragment(root *html.Node) (string, error) {
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// walk visits every element node depth-first.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
