package nlt

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	maxSearchResults = 20

	// Hits at or below this length are markup noise, not verse text.
	minResultTextLength = 11
)

// parseSearchHTML extracts hits from a search response. The upstream marks
// hits with result/passage/verse classes on div and p elements; the reference
// rides in a link or a leading "Book C:V" prefix when present.
func parseSearchHTML(htmlContent, version string) []SearchResult {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var results []SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxSearchResults {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "div" || n.Data == "p") &&
			classContainsAny(n, "result", "passage", "verse") {
			text := cleanText(collectText(n, skipNone))
			if len(text) >= minResultTextLength {
				results = append(results, SearchResult{
					Reference: hitReference(n),
					Text:      text,
					Version:   version,
				})
			}
			// Matched containers are terminal; nested matches would
			// duplicate the same text.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results
}

// hitReference pulls the passage reference out of a hit's first anchor or a
// nested span.ref, when the markup provides one.
func hitReference(n *html.Node) string {
	for _, a := range elementsByTag(n, "a") {
		if text := cleanText(collectText(a, skipNone)); text != "" {
			return text
		}
	}
	for _, span := range elementsByTag(n, "span") {
		if hasAnyClass(span, "ref", "reference") {
			if text := cleanText(collectText(span, skipNone)); text != "" {
				return text
			}
		}
	}
	return ""
}
