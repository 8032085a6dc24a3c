package nlt

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/sanctumapp/sanctum-server/internal/domain"
)

const (
	previewLength = 40

	// Verse texts at or below this length are parsing artifacts
	// (stray numbers, orphaned punctuation) and get dropped.
	minVerseTextLength = 4
)

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// parseChapterHTML turns a passages response into a Chapter. The upstream
// wraps each verse in a <verse_export> element carrying a vn attribute.
// Responses that predate that markup fall back to span.vn markers, and as a
// last resort the whole body becomes a single verse.
func parseChapterHTML(htmlContent, apiReference, version string) (*Chapter, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	verses := parseVerseExports(doc)
	if len(verses) == 0 {
		verses = parseVerseSpans(doc)
	}
	if len(verses) == 0 {
		if text := cleanText(collectText(doc, skipNone)); text != "" {
			verses = []domain.Verse{{
				Number:  1,
				Text:    text,
				Preview: makePreview(text),
			}}
		}
	}
	if len(verses) == 0 {
		return nil, ErrEmptyChapter
	}

	sort.Slice(verses, func(i, j int) bool { return verses[i].Number < verses[j].Number })

	book, chapterNumber := splitReference(apiReference)
	return &Chapter{
		Reference:     apiReference,
		Book:          book,
		ChapterNumber: chapterNumber,
		Version:       version,
		Verses:        verses,
		RawHTML:       htmlContent,
	}, nil
}

// parseVerseExports extracts one verse per <verse_export> element.
func parseVerseExports(doc *html.Node) []domain.Verse {
	var verses []domain.Verse
	for _, elem := range elementsByTag(doc, "verse_export") {
		number := verseNumber(elem)
		if number == 0 {
			continue
		}
		text := cleanText(collectText(elem, skipNonVerseContent))
		if len(text) < minVerseTextLength {
			continue
		}
		verses = append(verses, domain.Verse{
			Number:  number,
			Text:    text,
			Preview: makePreview(text),
		})
	}
	return verses
}

// parseVerseSpans handles markup without verse_export wrappers: each
// span.vn marks a verse number, and its parent holds the verse text.
func parseVerseSpans(doc *html.Node) []domain.Verse {
	var verses []domain.Verse
	for _, span := range elementsByTag(doc, "span") {
		if !hasAnyClass(span, "vn") {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(collectText(span, skipNone)))
		if err != nil || span.Parent == nil {
			continue
		}
		text := cleanText(collectText(span.Parent, skipNonVerseContent))
		text = strings.TrimSpace(strings.TrimPrefix(text, strconv.Itoa(number)))
		if len(text) < minVerseTextLength {
			continue
		}
		verses = append(verses, domain.Verse{
			Number:  number,
			Text:    text,
			Preview: makePreview(text),
		})
	}
	return verses
}

// verseNumber reads the vn attribute, falling back to a nested span.vn.
func verseNumber(elem *html.Node) int {
	for _, attr := range elem.Attr {
		if attr.Key == "vn" {
			if n, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil {
				return n
			}
		}
	}
	for _, span := range elementsByTag(elem, "span") {
		if hasAnyClass(span, "vn") {
			if n, err := strconv.Atoi(strings.TrimSpace(collectText(span, skipNone))); err == nil {
				return n
			}
		}
	}
	return 0
}

// skipNonVerseContent reports whether a node's subtree is footnote or
// heading markup that must not leak into verse text.
func skipNonVerseContent(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "a", "span":
		if hasAnyClass(n, "a-tn", "tn") {
			return true
		}
		return n.Data == "span" && hasAnyClass(n, "vn")
	case "h2", "h3":
		return hasAnyClass(n, "chapter-number", "subhead", "bk_ch_vs_header")
	}
	return false
}

func skipNone(*html.Node) bool { return false }

// collectText gathers text content depth-first, inserting spaces between
// nodes, skipping subtrees the filter rejects.
func collectText(n *html.Node, skip func(*html.Node) bool) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if skip(node) {
			return
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// cleanText unescapes entities and collapses runs of whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = whitespaceRegexp.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// makePreview truncates verse text for list displays.
func makePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// splitReference breaks an API reference like "John.3" into book and chapter.
// A missing chapter part defaults to 1.
func splitReference(apiReference string) (string, int) {
	idx := strings.LastIndex(apiReference, ".")
	if idx < 0 {
		return apiReference, 1
	}
	chapter, err := strconv.Atoi(apiReference[idx+1:])
	if err != nil {
		return apiReference, 1
	}
	return apiReference[:idx], chapter
}
