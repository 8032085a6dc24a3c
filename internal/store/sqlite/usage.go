package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/domain"
	"github.com/sanctumapp/sanctum-server/internal/id"
	"github.com/sanctumapp/sanctum-server/internal/store"
)

const (
	recentUsageLimit     = 10
	popularChaptersLimit = 5

	// accessMethodAPIStorage tags entries written by the compliance-gated
	// storage path, matching the provider-facing access trail.
	accessMethodAPIStorage = "api_storage"
)

// usageRecord is the input for one usage-log append.
type usageRecord struct {
	Action        string
	VersionCode   string
	BookName      string
	ChapterNumber int
	VerseCount    int
}

// appendUsage writes one row to the append-only usage trail. It runs against
// either the pool or an open transaction.
func appendUsage(ctx context.Context, q querier, rec usageRecord) error {
	entryID, err := id.Generate("usage")
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO usage_logs (id, action, version_code, book_name, chapter_number, verse_count, access_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID, rec.Action, rec.VersionCode, rec.BookName, rec.ChapterNumber,
		rec.VerseCount, accessMethodAPIStorage, formatTime(time.Now()))
	return err
}

// UsageStatistics aggregates compliance state, the most recent usage-log
// entries and the most-accessed chapters. Ordering is deterministic: recency
// ties break on id, popularity ties break on canonical book/chapter order.
func (s *Store) UsageStatistics(ctx context.Context) (*domain.UsageStatistics, error) {
	compliance, err := s.ComplianceStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentUsage(ctx)
	if err != nil {
		return nil, err
	}

	popular, err := s.popularChapters(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.UsageStatistics{
		Compliance:      compliance,
		UsagePercentage: compliance.UsagePercentage(),
		RecentUsage:     recent,
		PopularChapters: popular,
	}, nil
}

func (s *Store) recentUsage(ctx context.Context) ([]domain.UsageEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, version_code, book_name, chapter_number, verse_count, access_method, created_at
		FROM usage_logs
		ORDER BY created_at DESC, id
		LIMIT ?`, recentUsageLimit)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("load usage logs").WithCause(err)
	}
	defer rows.Close()

	var entries []domain.UsageEntry
	for rows.Next() {
		var (
			e            domain.UsageEntry
			versionCode  sql.NullString
			bookName     sql.NullString
			chapterNum   sql.NullInt64
			accessMethod sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&e.ID, &e.Action, &versionCode, &bookName,
			&chapterNum, &e.VerseCount, &accessMethod, &createdAt); err != nil {
			return nil, store.ErrStorage.WithMessage("scan usage log").WithCause(err)
		}
		e.VersionCode = versionCode.String
		e.BookName = bookName.String
		e.ChapterNumber = int(chapterNum.Int64)
		e.AccessMethod = accessMethod.String
		e.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, store.ErrStorage.WithCause(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrStorage.WithCause(err)
	}

	return entries, nil
}

func (s *Store) popularChapters(ctx context.Context) ([]domain.PopularChapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.name, c.chapter_number, v.code, c.accessed_count
		FROM chapters c
		JOIN books b ON c.book_id = b.id
		JOIN versions v ON c.version_id = v.id
		ORDER BY c.accessed_count DESC, b.book_number, c.chapter_number
		LIMIT ?`, popularChaptersLimit)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("load popular chapters").WithCause(err)
	}
	defer rows.Close()

	var popular []domain.PopularChapter
	for rows.Next() {
		var p domain.PopularChapter
		if err := rows.Scan(&p.BookName, &p.ChapterNumber, &p.VersionCode, &p.AccessedCount); err != nil {
			return nil, store.ErrStorage.WithMessage("scan popular chapter").WithCause(err)
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrStorage.WithCause(err)
	}

	return popular, nil
}
