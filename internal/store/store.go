// Package store defines the persistence contract for the Bible content cache.
//
// The store is the single authority for license compliance: every write is
// re-validated against the compliance ledger inside one transaction, so
// concurrent fetches can never jointly overshoot the personal-use limit.
// In-memory layers above it hold non-authoritative mirrors only.
package store

import (
	"context"

	"github.com/sanctumapp/sanctum-server/internal/domain"
)

// ChapterStore is durable chapter storage with compliance-gated writes and
// idempotent re-storage.
type ChapterStore interface {
	// ComplianceStatus returns the current compliance counters, creating the
	// zeroed singleton row if it does not exist yet.
	ComplianceStatus(ctx context.Context) (*domain.ComplianceSummary, error)

	// CanStoreChapter reports whether a chapter with the given verse count can
	// be stored without violating the personal-use limit. The returned reason
	// is empty when storage is allowed.
	CanStoreChapter(ctx context.Context, verseCount int) (bool, string, error)

	// StoreChapter persists a chapter. Storing an already-present key bumps
	// access telemetry and reports success without touching the ledger.
	// Returns (false, nil) only when compliance prevents storage.
	StoreChapter(ctx context.Context, chapter *domain.Chapter) (bool, error)

	// GetChapter loads one stored chapter and records the access. Absence is
	// ErrNotFound.
	GetChapter(ctx context.Context, versionCode, bookName string, chapterNumber int) (*domain.Chapter, error)

	// AllChapters loads every stored chapter for a version, keyed by
	// "{BookName}.{ChapterNumber}", in canonical book/chapter order.
	AllChapters(ctx context.Context, versionCode string) (map[string]*domain.Chapter, error)

	// Books returns the canonical book metadata ordered by book number.
	Books(ctx context.Context) ([]domain.Book, error)

	// Versions returns the version allow-list.
	Versions(ctx context.Context) ([]domain.Version, error)

	// UsageStatistics aggregates compliance state, recent usage-log entries
	// and the most-accessed chapters.
	UsageStatistics(ctx context.Context) (*domain.UsageStatistics, error)
}
