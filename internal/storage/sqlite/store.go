// Package sqlite provides a SQLite-backed DocumentStore. Every save is
// written through, so Flush is a no-op and an interrupted run loses
// nothing past the last completed save.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
	"github.com/partikollen/partikollen/internal/storage/sqlite/migrations"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for crash safety during long ingestion runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies the embedded SQL migrations in file order, tracking
// applied versions in schema_migrations.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`,
	); err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int
		if err := s.db.QueryRow(
			`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, name,
		).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			`INSERT INTO schema_migrations (version) VALUES (?)`, name,
		); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecord stores or replaces a record. Replacing a chunked record
// also drops its old fragments so a re-ingestion is a full replace.
func (s *Store) SaveRecord(ctx context.Context, rec *domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fragments WHERE parent_id = ?`, rec.ID,
	); err != nil {
		return err
	}

	var published any
	if rec.Published != nil {
		published = rec.Published.Format("2006-01-02")
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
		(id, category, title, subtitle, published, party, speaker,
		 decision, body_text, source_kind, chunked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Category.String(), rec.Title, rec.Subtitle, published,
		rec.Party, rec.Speaker, rec.Decision, rec.BodyText,
		rec.SourceKind.String(), boolToInt(rec.Chunked),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveFragments stores trailing fragments for a chunked record.
func (s *Store) SaveFragments(ctx context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range fragments {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO fragments (id, parent_id, idx, text)
			VALUES (?, ?, ?, ?)`,
			f.ID, f.ParentID, f.Index, f.Text,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRecord retrieves a record by category and id.
func (s *Store) GetRecord(ctx context.Context, cat domain.Category, id string) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, title, subtitle, published, party, speaker,
		       decision, body_text, source_kind, chunked, created_at
		FROM documents WHERE category = ? AND id = ?`,
		cat.String(), id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// ListFragments retrieves all fragments for a parent record.
func (s *Store) ListFragments(ctx context.Context, parentID string) ([]domain.Fragment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, idx, text FROM fragments WHERE parent_id = ?`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fragments []domain.Fragment
	for rows.Next() {
		var f domain.Fragment
		if err := rows.Scan(&f.ID, &f.ParentID, &f.Index, &f.Text); err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, rows.Err()
}

// ListIDs returns every record identifier in a category.
func (s *Store) ListIDs(ctx context.Context, cat domain.Category) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM documents WHERE category = ?`, cat.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRecords returns every record in a category.
func (s *Store) ListRecords(ctx context.Context, cat domain.Category) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, title, subtitle, published, party, speaker,
		       decision, body_text, source_kind, chunked, created_at
		FROM documents WHERE category = ?`,
		cat.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Flush is a no-op; every save is written through.
func (s *Store) Flush(_ context.Context) error {
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one documents row.
func scanRecord(row scanner) (*domain.Record, error) {
	var (
		rec       domain.Record
		category  string
		published sql.NullString
		kind      string
		chunked   int
		createdAt string
	)
	if err := row.Scan(
		&rec.ID, &category, &rec.Title, &rec.Subtitle, &published,
		&rec.Party, &rec.Speaker, &rec.Decision, &rec.BodyText,
		&kind, &chunked, &createdAt,
	); err != nil {
		return nil, err
	}

	cat, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	rec.Category = cat
	if published.Valid {
		rec.Published = domain.ParsePublished(published.String)
	}
	rec.SourceKind = domain.ParseSourceKind(kind)
	rec.Chunked = chunked != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
