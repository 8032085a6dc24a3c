// Package session holds the in-memory chapter cache that fronts the
// persistent store. It implements the cache-first, API-fallback reading
// strategy: chapters already in the session map are served without I/O,
// misses go through compliance gating before any remote fetch.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sanctumapp/sanctum-server/internal/bible/nlt"
	"github.com/sanctumapp/sanctum-server/internal/domain"
)

// ChapterStore is the persistence surface the cache depends on. The store is
// the sole authority on compliance; the cache never counts verses itself.
type ChapterStore interface {
	ComplianceStatus(ctx context.Context) (*domain.ComplianceSummary, error)
	CanStoreChapter(ctx context.Context, verseCount int) (bool, string, error)
	StoreChapter(ctx context.Context, chapter *domain.Chapter) (bool, error)
	AllChapters(ctx context.Context, versionCode string) (map[string]*domain.Chapter, error)
	Books(ctx context.Context) ([]domain.Book, error)
	UsageStatistics(ctx context.Context) (*domain.UsageStatistics, error)
}

// BibleClient fetches content from the upstream Bible API.
type BibleClient interface {
	GetChapter(ctx context.Context, apiReference, version string) (*nlt.Chapter, error)
	Search(ctx context.Context, text, version string) ([]nlt.SearchResult, error)
}

// Cache is the session-scoped chapter cache.
type Cache struct {
	store  ChapterStore
	client BibleClient
	logger *slog.Logger

	mu       sync.RWMutex
	chapters map[string]map[string]*domain.Chapter // version -> "Book.N" -> chapter
	books    []domain.Book

	licenseMode string
}

// New creates an empty session cache. Call InitializeSession to warm it from
// the store.
func New(store ChapterStore, client BibleClient, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		store:       store,
		client:      client,
		logger:      logger,
		chapters:    make(map[string]map[string]*domain.Chapter),
		licenseMode: domain.LicenseModePersonal,
	}
}

// InitializeSession loads book metadata and merges all persisted chapters for
// a version into the session map. Safe to call repeatedly: existing entries
// are kept, persisted ones win on conflict.
func (c *Cache) InitializeSession(ctx context.Context, versionCode string) (*SessionInfo, error) {
	versionCode = normalizeVersion(versionCode)

	books, err := c.ensureBooks(ctx)
	if err != nil {
		return nil, err
	}

	cached, err := c.store.AllChapters(ctx, versionCode)
	if err != nil {
		return nil, err
	}

	compliance, err := c.store.ComplianceStatus(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.chapters[versionCode] == nil {
		c.chapters[versionCode] = make(map[string]*domain.Chapter)
	}
	for key, chapter := range cached {
		c.chapters[versionCode][key] = chapter
	}
	cachedCount := len(c.chapters[versionCode])
	c.mu.Unlock()

	total := 0
	for _, b := range books {
		total += b.TotalChapters
	}

	c.logger.Info("session initialized",
		"version", versionCode,
		"cached_chapters", cachedCount,
		"missing_chapters", total-cachedCount,
	)

	return &SessionInfo{
		Version:         versionCode,
		CachedChapters:  cachedCount,
		MissingChapters: total - cachedCount,
		Books:           books,
		Compliance:      compliance,
	}, nil
}

// ensureBooks loads book metadata from the store on first use.
func (c *Cache) ensureBooks(ctx context.Context) ([]domain.Book, error) {
	c.mu.RLock()
	books := c.books
	c.mu.RUnlock()
	if books != nil {
		return books, nil
	}

	books, err := c.store.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("load book metadata: %w", err)
	}

	c.mu.Lock()
	if c.books == nil {
		c.books = books
	}
	books = c.books
	c.mu.Unlock()

	return books, nil
}

// bookAbbrev resolves the canonical abbreviation for a book name, falling
// back to the uppercased first three letters for unknown names.
func (c *Cache) bookAbbrev(books []domain.Book, bookName string) string {
	for _, b := range books {
		if b.Name == bookName {
			return b.Abbrev
		}
	}
	if len(bookName) >= 3 {
		return strings.ToUpper(bookName[:3])
	}
	return strings.ToUpper(bookName)
}

// cachedChapter looks up one chapter under the read lock.
func (c *Cache) cachedChapter(versionCode, key string) (*domain.Chapter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chapter, ok := c.chapters[versionCode][key]
	return chapter, ok
}

// insertChapter adds a persisted chapter to the session map.
func (c *Cache) insertChapter(versionCode string, chapter *domain.Chapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chapters[versionCode] == nil {
		c.chapters[versionCode] = make(map[string]*domain.Chapter)
	}
	c.chapters[versionCode][chapter.Key()] = chapter
}

func normalizeVersion(versionCode string) string {
	if versionCode == "" {
		return nlt.DefaultVersion
	}
	return strings.ToUpper(versionCode)
}
