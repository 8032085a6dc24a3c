package sqlite

import (
	"context"
	"database/sql"

	"github.com/sanctumapp/sanctum-server/internal/domain"
	"github.com/sanctumapp/sanctum-server/internal/store"
)

// Books returns the canonical book metadata ordered by book number.
func (s *Store) Books(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_number, name, abbrev, testament, category, color_code, total_chapters
		FROM books
		ORDER BY book_number`)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("load books").WithCause(err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.Number, &b.Name, &b.Abbrev, &b.Testament,
			&b.Category, &b.ColorCode, &b.TotalChapters); err != nil {
			return nil, store.ErrStorage.WithMessage("scan book").WithCause(err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrStorage.WithCause(err)
	}

	return books, nil
}

// Versions returns the version allow-list, active versions first.
func (s *Store) Versions(ctx context.Context) ([]domain.Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, description, source, license_type, is_active
		FROM versions
		ORDER BY is_active DESC, code`)
	if err != nil {
		return nil, store.ErrStorage.WithMessage("load versions").WithCause(err)
	}
	defer rows.Close()

	var versions []domain.Version
	for rows.Next() {
		var (
			v      domain.Version
			desc   sql.NullString
			active int
		)
		if err := rows.Scan(&v.Code, &v.Name, &desc, &v.Source, &v.LicenseType, &active); err != nil {
			return nil, store.ErrStorage.WithMessage("scan version").WithCause(err)
		}
		if desc.Valid {
			v.Description = desc.String
		}
		v.Active = active != 0
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrStorage.WithCause(err)
	}

	return versions, nil
}
