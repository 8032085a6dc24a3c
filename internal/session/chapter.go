package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanctumapp/sanctum-server/internal/bible/nlt"
	"github.com/sanctumapp/sanctum-server/internal/domain"
)

// GetChapter serves a chapter cache-first. On a miss the store's compliance
// state gates the remote fetch: a non-compliant ledger blocks before any
// network I/O. Fetched chapters are persisted when the limit allows; refusal
// or a storage failure still serves the fetched data with Stored false.
// All failures surface as result values, never as errors.
func (c *Cache) GetChapter(ctx context.Context, bookName string, chapterNumber int, versionCode string) ChapterResult {
	versionCode = normalizeVersion(versionCode)
	key := domain.ChapterKey(bookName, chapterNumber)

	if chapter, ok := c.cachedChapter(versionCode, key); ok {
		c.logger.Debug("cache hit", "key", key, "version", versionCode)
		return c.chapterResult(chapter, true, false, "")
	}

	c.logger.Debug("cache miss", "key", key, "version", versionCode)

	compliance, err := c.store.ComplianceStatus(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load chapter: %v", err))
	}
	if !compliance.IsCompliant {
		c.logger.Warn("fetch blocked by storage limit", "key", key)
		return errorResult(fmt.Sprintf("Personal use limit reached (%d/%d verses)",
			compliance.TotalVersesStored, compliance.PersonalUseLimit))
	}

	remote, err := c.client.GetChapter(ctx, key, versionCode)
	if err != nil {
		if errors.Is(err, nlt.ErrNotFound) || errors.Is(err, nlt.ErrEmptyChapter) {
			return errorResult(fmt.Sprintf("Chapter not found: %s", key))
		}
		return errorResult(fmt.Sprintf("Failed to load chapter: %v", err))
	}

	books, err := c.ensureBooks(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load chapter: %v", err))
	}

	chapter := &domain.Chapter{
		BookName:      bookName,
		BookAbbrev:    c.bookAbbrev(books, bookName),
		ChapterNumber: chapterNumber,
		VersionCode:   versionCode,
		Verses:        remote.Verses,
		VerseCount:    len(remote.Verses),
		APIReference:  remote.Reference,
		SourceURL:     remote.SourceURL,
		RawSource:     remote.RawHTML,
	}

	canStore, reason, err := c.store.CanStoreChapter(ctx, chapter.VerseCount)
	if err != nil {
		c.logger.Warn("compliance check failed, serving without storing",
			"key", key, "error", err)
		return c.chapterResult(chapter, false, false, "")
	}
	if !canStore {
		c.logger.Warn("cannot store chapter", "key", key, "reason", reason)
		return c.chapterResult(chapter, false, false, reason)
	}

	stored, err := c.store.StoreChapter(ctx, chapter)
	switch {
	case err != nil:
		c.logger.Warn("failed to store chapter, serving fetched data",
			"key", key, "error", err)
		return c.chapterResult(chapter, false, false, "")
	case !stored:
		// Raced past the earlier check; the transaction refused.
		return c.chapterResult(chapter, false, false, "storage limit reached")
	}

	c.insertChapter(versionCode, chapter)
	c.logger.Info("stored and cached chapter",
		"key", key, "version", versionCode, "verses", chapter.VerseCount)
	return c.chapterResult(chapter, false, true, "")
}

func (c *Cache) chapterResult(chapter *domain.Chapter, fromCache, stored bool, warning string) ChapterResult {
	return ChapterResult{
		Success:           true,
		Book:              chapter.BookName,
		BookAbbrev:        chapter.BookAbbrev,
		Chapter:           chapter.ChapterNumber,
		Version:           chapter.VersionCode,
		Verses:            chapter.Verses,
		VerseCount:        chapter.VerseCount,
		FromCache:         fromCache,
		Stored:            stored,
		ComplianceWarning: warning,
		APIReference:      chapter.APIReference,
	}
}
