package nlt

import (
	"strings"

	"golang.org/x/net/html"
)

// elementsByTag returns all element nodes under root with the given tag name,
// in document order.
func elementsByTag(root *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// hasAnyClass reports whether the node's class attribute contains any of the
// given class names.
func hasAnyClass(n *html.Node, classes ...string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, have := range strings.Fields(attr.Val) {
			for _, want := range classes {
				if have == want {
					return true
				}
			}
		}
	}
	return false
}

// classContainsAny reports whether the class attribute contains any of the
// given substrings, case-insensitively.
func classContainsAny(n *html.Node, substrings ...string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, want := range substrings {
			if strings.Contains(val, want) {
				return true
			}
		}
	}
	return false
}
