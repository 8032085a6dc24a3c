package nlt

import "github.com/sanctumapp/sanctum-server/internal/domain"

// Chapter is a parsed passage response: one Bible chapter with its verses in
// ascending order.
type Chapter struct {
	Reference     string // API reference like "John.3"
	Book          string
	ChapterNumber int
	Version       string
	Verses        []domain.Verse
	RawHTML       string // Original response body, kept for re-parsing
	SourceURL     string // Request URL with the API key redacted
}

// SearchResult is one hit from the search endpoint.
type SearchResult struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Version   string `json:"version"`
}

// ParsedReference is the JSON response from the parse endpoint.
type ParsedReference struct {
	Book         string `json:"book"`
	Chapter      int    `json:"chapter"`
	Verse        int    `json:"verse,omitzero"`
	Normalized   string `json:"normalized,omitzero"`
	OriginalText string `json:"original_text,omitzero"`
}
