// Package sqlite provides the SQLite-backed chapter store for the Sanctum server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/domain"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for the Bible content cache,
// including the compliance ledger it is the sole authority for.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, runs schema migrations, and seeds the immutable
// version and book reference tables.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	s := &Store{db: db, logger: logger}

	if err := s.seedReferenceData(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed reference data: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// seedReferenceData inserts the fixed version allow-list and the 66-book
// canon. Idempotent: existing rows are left untouched.
func (s *Store) seedReferenceData(ctx context.Context) error {
	now := formatTime(time.Now())

	for _, v := range domain.CanonicalVersions() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO versions (code, name, description, source, license_type, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(code) DO NOTHING`,
			v.Code, v.Name, v.Description, v.Source, v.LicenseType, boolToInt(v.Active), now)
		if err != nil {
			return fmt.Errorf("seed version %s: %w", v.Code, err)
		}
	}

	for _, b := range domain.CanonicalBooks() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO books (book_number, name, abbrev, testament, category, color_code, total_chapters)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(book_number) DO NOTHING`,
			b.Number, b.Name, b.Abbrev, b.Testament, b.Category, b.ColorCode, b.TotalChapters)
		if err != nil {
			return fmt.Errorf("seed book %s: %w", b.Name, err)
		}
	}

	return nil
}

// querier abstracts *sql.DB and *sql.Tx for helpers shared between the two.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// versionID resolves a version code to its row id.
func versionID(ctx context.Context, q querier, code string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM versions WHERE code = ?`, code).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

// bookID resolves a book display name to its row id.
func bookID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM books WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
