// Package domain contains the core business entities for the Sanctum Bible content cache.
package domain

import (
	"fmt"
	"time"
)

// PersonalUseLimit is the maximum number of verses that may be stored
// under the personal-use license terms.
const PersonalUseLimit = 500

// LicenseModePersonal is the only license mode supported by this server.
const LicenseModePersonal = "personal"

// Version represents a Bible translation available through the remote provider.
// The set of versions is fixed reference data seeded at store creation.
type Version struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	LicenseType string `json:"license_type"`
	Active      bool   `json:"active"`
}

// Verse is a single numbered verse within a chapter.
type Verse struct {
	Number  int    `json:"number"`
	Text    string `json:"text"`
	Preview string `json:"preview"`
}

// Chapter is the central cached entity: one chapter of one book in one version.
// A chapter is persisted at most once per (version, book, chapter) key;
// subsequent stores only bump access telemetry.
type Chapter struct {
	BookName      string    `json:"book"`
	BookAbbrev    string    `json:"book_abbrev"`
	ChapterNumber int       `json:"chapter"`
	VersionCode   string    `json:"version"`
	Verses        []Verse   `json:"verses"`
	VerseCount    int       `json:"verse_count"`
	APIReference  string    `json:"api_reference"`
	SourceURL     string    `json:"source_url,omitempty"`
	RawSource     string    `json:"-"`
	DownloadedAt  time.Time `json:"downloaded_at,omitzero"`
	AccessedCount int       `json:"accessed_count,omitempty"`
	LastAccessed  time.Time `json:"last_accessed,omitzero"`
}

// Key returns the session cache key for this chapter, e.g. "John.3".
func (c *Chapter) Key() string {
	return ChapterKey(c.BookName, c.ChapterNumber)
}

// ChapterKey builds the "{BookName}.{ChapterNumber}" key used to index the
// session cache and to reference chapters at the remote provider.
func ChapterKey(bookName string, chapterNumber int) string {
	return fmt.Sprintf("%s.%d", bookName, chapterNumber)
}

// ComplianceSummary tracks cumulative stored content against the personal-use
// limit. There is exactly one logical row; it is the single source of truth for
// "can we store more content".
type ComplianceSummary struct {
	TotalVersesStored   int       `json:"total_verses_stored"`
	TotalChaptersStored int       `json:"total_chapters_stored"`
	PersonalUseLimit    int       `json:"personal_use_limit"`
	LicenseMode         string    `json:"license_mode"`
	IsCompliant         bool      `json:"is_compliant"`
	LastUpdated         time.Time `json:"last_updated,omitzero"`
}

// UsagePercentage returns stored verses as a percentage of the limit.
func (c *ComplianceSummary) UsagePercentage() float64 {
	if c.PersonalUseLimit == 0 {
		return 0
	}
	return float64(c.TotalVersesStored) / float64(c.PersonalUseLimit) * 100
}

// Usage log actions.
const (
	UsageActionDownload = "download"
	UsageActionRead     = "read"
)

// UsageEntry is one row of the append-only usage trail kept for license
// compliance auditing.
type UsageEntry struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	VersionCode   string    `json:"version,omitempty"`
	BookName      string    `json:"book,omitempty"`
	ChapterNumber int       `json:"chapter,omitempty"`
	VerseCount    int       `json:"verse_count"`
	AccessMethod  string    `json:"access_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PopularChapter is an aggregate row for the most-accessed chapters report.
type PopularChapter struct {
	BookName      string `json:"book"`
	ChapterNumber int    `json:"chapter"`
	VersionCode   string `json:"version"`
	AccessedCount int    `json:"accessed_count"`
}

// UsageStatistics aggregates compliance state with recent activity.
type UsageStatistics struct {
	Compliance      *ComplianceSummary `json:"compliance"`
	UsagePercentage float64            `json:"usage_percentage"`
	RecentUsage     []UsageEntry       `json:"recent_usage"`
	PopularChapters []PopularChapter   `json:"popular_chapters"`
}
