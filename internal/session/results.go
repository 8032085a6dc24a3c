package session

import "github.com/sanctumapp/sanctum-server/internal/domain"

// SessionInfo summarizes the cache state after initialization.
type SessionInfo struct {
	Version         string                    `json:"version"`
	CachedChapters  int                       `json:"cached_chapters"`
	MissingChapters int                       `json:"missing_chapters"`
	Books           []domain.Book             `json:"books_metadata"`
	Compliance      *domain.ComplianceSummary `json:"compliance"`
}

// ChapterResult is the uniform response shape for chapter reads. Success is
// true whenever verse data is served, even if persisting it was refused.
type ChapterResult struct {
	Success           bool           `json:"success"`
	Book              string         `json:"book,omitzero"`
	BookAbbrev        string         `json:"book_abbrev,omitzero"`
	Chapter           int            `json:"chapter,omitzero"`
	Version           string         `json:"version,omitzero"`
	Verses            []domain.Verse `json:"verses"`
	VerseCount        int            `json:"verse_count"`
	FromCache         bool           `json:"from_cache"`
	Stored            bool           `json:"stored"`
	ComplianceWarning string         `json:"compliance_warning,omitzero"`
	Error             string         `json:"error,omitzero"`
	APIReference      string         `json:"api_reference,omitzero"`
}

// SearchResult is one search hit, from either the session cache or the
// upstream API.
type SearchResult struct {
	Reference string `json:"reference"`
	Book      string `json:"book,omitzero"`
	Chapter   int    `json:"chapter,omitzero"`
	Verse     int    `json:"verse,omitzero"`
	Text      string `json:"text"`
	Version   string `json:"version"`
	FromCache bool   `json:"from_cache"`
}

// SearchResponse wraps search hits with the query context. When compliance
// forces a cached-only scan, SearchedCachedOnly reports it.
type SearchResponse struct {
	Success            bool           `json:"success"`
	Query              string         `json:"query"`
	Version            string         `json:"version"`
	Results            []SearchResult `json:"results"`
	SearchedCachedOnly bool           `json:"searched_cached_only"`
	ResultCount        int            `json:"result_count"`
	Error              string         `json:"error,omitzero"`
}

// NavigationData groups the canon by testament for reader navigation.
type NavigationData struct {
	Success      bool                      `json:"success"`
	OldTestament []domain.Book             `json:"old_testament"`
	NewTestament []domain.Book             `json:"new_testament"`
	TotalBooks   int                       `json:"total_books"`
	Compliance   *domain.ComplianceSummary `json:"compliance"`
}

// Stats combines store-side usage statistics with session cache sizes.
type Stats struct {
	Success             bool                    `json:"success"`
	Statistics          *domain.UsageStatistics `json:"statistics"`
	SessionCache        map[string]int          `json:"session_cache"`
	TotalCachedVersions int                     `json:"total_cached_versions"`
}

// errorResult builds a failed ChapterResult with empty verse data.
func errorResult(message string) ChapterResult {
	return ChapterResult{
		Success: false,
		Error:   message,
		Verses:  []domain.Verse{},
	}
}
