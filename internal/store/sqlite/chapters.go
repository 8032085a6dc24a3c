package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/domain"
	"github.com/sanctumapp/sanctum-server/internal/store"
)

// StoreChapter persists a chapter under compliance gating.
//
// The compliance check, the chapter insert, the ledger update and the usage
// log append all run in one transaction so concurrent stores cannot jointly
// overshoot the personal-use limit or leave a half-applied state.
//
// Storing a key that already exists bumps its access telemetry, reports
// success and never touches the ledger, making re-storage idempotent.
// Returns (false, nil) only when compliance prevents storage.
func (s *Store) StoreChapter(ctx context.Context, chapter *domain.Chapter) (bool, error) {
	if chapter.VerseCount != len(chapter.Verses) {
		return false, store.ErrInvalidInput.WithMessage(
			fmt.Sprintf("verse_count %d does not match %d verses", chapter.VerseCount, len(chapter.Verses)))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, store.ErrStorage.WithMessage("begin transaction").WithCause(err)
	}
	defer tx.Rollback()

	verID, err := versionID(ctx, tx, chapter.VersionCode)
	if err != nil {
		return false, store.ErrStorage.WithCause(err)
	}
	if verID == 0 {
		return false, store.ErrUnknownVersion.WithMessage(
			fmt.Sprintf("unknown bible version %q", chapter.VersionCode))
	}

	bkID, err := bookID(ctx, tx, chapter.BookName)
	if err != nil {
		return false, store.ErrStorage.WithCause(err)
	}
	if bkID == 0 {
		return false, store.ErrUnknownBook.WithMessage(
			fmt.Sprintf("unknown book %q", chapter.BookName))
	}

	// Idempotent path: an existing row only gets its telemetry bumped.
	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM chapters
		WHERE version_id = ? AND book_id = ? AND chapter_number = ?`,
		verID, bkID, chapter.ChapterNumber).Scan(&existingID)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE chapters
			SET accessed_count = accessed_count + 1, last_accessed = ?
			WHERE id = ?`,
			formatTime(time.Now()), existingID)
		if err != nil {
			return false, store.ErrStorage.WithMessage("update access telemetry").WithCause(err)
		}
		if err := tx.Commit(); err != nil {
			return false, store.ErrStorage.WithMessage("commit").WithCause(err)
		}
		s.logger.Debug("chapter re-store, telemetry bumped",
			"book", chapter.BookName,
			"chapter", chapter.ChapterNumber,
			"version", chapter.VersionCode)
		return true, nil
	case err != sql.ErrNoRows:
		return false, store.ErrStorage.WithCause(err)
	}

	// Re-validate compliance inside the transaction; the caller's earlier
	// check may be stale.
	summary, err := complianceStatus(ctx, tx)
	if err != nil {
		return false, store.ErrStorage.WithMessage("read compliance summary").WithCause(err)
	}
	if ok, reason := checkCompliance(summary, chapter.VerseCount); !ok {
		s.logger.Warn("compliance prevents storage",
			"book", chapter.BookName,
			"chapter", chapter.ChapterNumber,
			"reason", reason)
		return false, nil
	}

	versesJSON, err := json.Marshal(chapter.Verses)
	if err != nil {
		return false, store.ErrStorage.WithMessage("marshal verses").WithCause(err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chapters
			(version_id, book_id, chapter_number, api_reference, source_url, raw_source,
			 verses, verse_count, downloaded_at, accessed_count, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		verID, bkID, chapter.ChapterNumber, chapter.APIReference,
		nullString(chapter.SourceURL), nullString(chapter.RawSource),
		string(versesJSON), chapter.VerseCount, formatTime(now), formatTime(now))
	if err != nil {
		return false, store.ErrStorage.WithMessage("insert chapter").WithCause(err)
	}

	if err := recordStoredChapter(ctx, tx, chapter.VerseCount); err != nil {
		return false, store.ErrStorage.WithMessage("update compliance summary").WithCause(err)
	}

	if err := appendUsage(ctx, tx, usageRecord{
		Action:        domain.UsageActionDownload,
		VersionCode:   chapter.VersionCode,
		BookName:      chapter.BookName,
		ChapterNumber: chapter.ChapterNumber,
		VerseCount:    chapter.VerseCount,
	}); err != nil {
		return false, store.ErrStorage.WithMessage("append usage log").WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return false, store.ErrStorage.WithMessage("commit").WithCause(err)
	}

	s.logger.Info("chapter stored",
		"book", chapter.BookName,
		"chapter", chapter.ChapterNumber,
		"version", chapter.VersionCode,
		"verses", chapter.VerseCount)
	return true, nil
}

// chapterColumns is the ordered list of columns selected in chapter queries.
// Must match the scan order in scanChapter.
const chapterColumns = `c.chapter_number, c.api_reference, c.source_url, c.raw_source,
	c.verses, c.verse_count, c.downloaded_at, c.accessed_count, c.last_accessed,
	b.name, b.abbrev, v.code`

// scanChapter scans one joined chapter row into a domain.Chapter.
func scanChapter(scanner interface{ Scan(dest ...any) error }) (*domain.Chapter, error) {
	var (
		c            domain.Chapter
		sourceURL    sql.NullString
		rawSource    sql.NullString
		versesJSON   string
		downloadedAt string
		lastAccessed string
	)

	err := scanner.Scan(
		&c.ChapterNumber,
		&c.APIReference,
		&sourceURL,
		&rawSource,
		&versesJSON,
		&c.VerseCount,
		&downloadedAt,
		&c.AccessedCount,
		&lastAccessed,
		&c.BookName,
		&c.BookAbbrev,
		&c.VersionCode,
	)
	if err != nil {
		return nil, err
	}

	if sourceURL.Valid {
		c.SourceURL = sourceURL.String
	}
	if rawSource.Valid {
		c.RawSource = rawSource.String
	}

	if err := json.Unmarshal([]byte(versesJSON), &c.Verses); err != nil {
		return nil, fmt.Errorf("unmarshal verses: %w", err)
	}

	c.DownloadedAt, err = parseTime(downloadedAt)
	if err != nil {
		return nil, err
	}
	c.LastAccessed, err = parseTime(lastAccessed)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetChapter loads one stored chapter. The read bumps access telemetry and
// appends a usage-log entry; failures of either are logged and do not fail
// the read.
func (s *Store) GetChapter(ctx context.Context, versionCode, bookName string, chapterNumber int) (*domain.Chapter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+chapterColumns+`
		FROM chapters c
		JOIN books b ON c.book_id = b.id
		JOIN versions v ON c.version_id = v.id
		WHERE v.code = ? AND b.name = ? AND c.chapter_number = ?`,
		versionCode, bookName, chapterNumber)

	chapter, err := scanChapter(row)
	switch {
	case err == sql.ErrNoRows:
		return nil, store.ErrNotFound.WithMessage(
			fmt.Sprintf("chapter not found: %s.%d (%s)", bookName, chapterNumber, versionCode))
	case err != nil:
		return nil, store.ErrStorage.WithMessage("read chapter").WithCause(err)
	}

	// Side-effecting read: telemetry failures must not fail the caller.
	_, err = s.db.ExecContext(ctx, `
		UPDATE chapters
		SET accessed_count = accessed_count + 1, last_accessed = ?
		WHERE version_id = (SELECT id FROM versions WHERE code = ?)
		  AND book_id = (SELECT id FROM books WHERE name = ?)
		  AND chapter_number = ?`,
		formatTime(time.Now()), versionCode, bookName, chapterNumber)
	if err != nil {
		s.logger.Warn("access telemetry update failed",
			"book", bookName, "chapter", chapterNumber, "error", err)
	}

	if err := appendUsage(ctx, s.db, usageRecord{
		Action:        domain.UsageActionRead,
		VersionCode:   versionCode,
		BookName:      bookName,
		ChapterNumber: chapterNumber,
	}); err != nil {
		s.logger.Warn("usage log append failed",
			"book", bookName, "chapter", chapterNumber, "error", err)
	}

	return chapter, nil
}

// AllChapters loads every stored chapter for a version, keyed for the session
// cache, ordered by canonical book number then chapter number.
func (s *Store) AllChapters(ctx context.Context, versionCode string) (map[string]*domain.Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+chapterColumns+`
		FROM chapters c
		JOIN books b ON c.book_id = b.id
		JOIN versions v ON c.version_id = v.id
		WHERE v.code = ?
		ORDER BY b.book_number, c.chapter_number`,
		versionCode)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("load cached chapters").WithCause(err)
	}
	defer rows.Close()

	chapters := make(map[string]*domain.Chapter)
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, store.ErrStorage.WithMessage("scan chapter").WithCause(err)
		}
		chapters[chapter.Key()] = chapter
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrStorage.WithCause(err)
	}

	return chapters, nil
}

// nullString returns a sql.NullString, mapping "" to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
