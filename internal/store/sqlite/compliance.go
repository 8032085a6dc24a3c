package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/domain"
	"github.com/sanctumapp/sanctum-server/internal/store"
)

// ComplianceStatus returns the current compliance counters. The singleton row
// is created on first use, so a fresh database self-heals to a zeroed,
// compliant ledger.
func (s *Store) ComplianceStatus(ctx context.Context) (*domain.ComplianceSummary, error) {
	summary, err := complianceStatus(ctx, s.db)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("read compliance summary").WithCause(err)
	}
	return summary, nil
}

// CanStoreChapter reports whether verseCount more verses fit under the
// personal-use limit. The reason is empty when storage is allowed.
func (s *Store) CanStoreChapter(ctx context.Context, verseCount int) (bool, string, error) {
	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		return false, "", err
	}
	ok, reason := checkCompliance(summary, verseCount)
	return ok, reason, nil
}

// checkCompliance applies the limit rules to a summary snapshot.
func checkCompliance(c *domain.ComplianceSummary, additionalVerses int) (bool, string) {
	if !c.IsCompliant {
		return false, fmt.Sprintf("already at limit (%d/%d verses)",
			c.TotalVersesStored, c.PersonalUseLimit)
	}
	if c.TotalVersesStored+additionalVerses > c.PersonalUseLimit {
		return false, fmt.Sprintf("would exceed limit: %d/%d verses",
			c.TotalVersesStored+additionalVerses, c.PersonalUseLimit)
	}
	return true, ""
}

// complianceStatus reads (or lazily creates) the singleton ledger row. It runs
// against either the pool or an open transaction so StoreChapter can re-check
// inside its own transaction.
func complianceStatus(ctx context.Context, q querier) (*domain.ComplianceSummary, error) {
	var (
		c           domain.ComplianceSummary
		lastUpdated string
	)
	err := q.QueryRowContext(ctx, `
		SELECT total_verses_stored, total_chapters_stored, personal_use_limit, license_mode, last_updated
		FROM compliance_summary WHERE id = 1`).
		Scan(&c.TotalVersesStored, &c.TotalChaptersStored, &c.PersonalUseLimit, &c.LicenseMode, &lastUpdated)

	switch {
	case err == sql.ErrNoRows:
		now := time.Now()
		_, err = q.ExecContext(ctx, `
			INSERT INTO compliance_summary (id, total_verses_stored, total_chapters_stored, personal_use_limit, license_mode, last_updated)
			VALUES (1, 0, 0, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			domain.PersonalUseLimit, domain.LicenseModePersonal, formatTime(now))
		if err != nil {
			return nil, fmt.Errorf("initialize compliance summary: %w", err)
		}
		return &domain.ComplianceSummary{
			PersonalUseLimit: domain.PersonalUseLimit,
			LicenseMode:      domain.LicenseModePersonal,
			IsCompliant:      true,
			LastUpdated:      now,
		}, nil

	case err != nil:
		return nil, err
	}

	c.LastUpdated, err = parseTime(lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse last_updated: %w", err)
	}

	// Derived, never stored: recompute so it cannot drift from the counters.
	c.IsCompliant = c.TotalVersesStored <= c.PersonalUseLimit

	return &c, nil
}

// recordStoredChapter increments the ledger counters for a newly stored
// chapter. Must run inside the same transaction as the chapter insert.
func recordStoredChapter(ctx context.Context, q querier, verseCount int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE compliance_summary
		SET total_verses_stored = total_verses_stored + ?,
		    total_chapters_stored = total_chapters_stored + 1,
		    last_updated = ?
		WHERE id = 1`,
		verseCount, formatTime(time.Now()))
	return err
}
