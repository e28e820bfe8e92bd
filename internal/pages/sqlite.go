package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// MemoryPath opens an ephemeral database.
const MemoryPath = ":memory:"

// dateLayout has a fixed-width fraction so stored dates sort as text.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	hash    TEXT NOT NULL UNIQUE,
	name    TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	date    TEXT NOT NULL,
	author  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pages_date ON pages(date);
`

// SQLiteConfig configures the page database.
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// SQLiteStore is a Repository backed by modernc.org/sqlite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// sqliteDSN builds a file: URI for the database. Path segments are
// percent-escaped so "?", "#" and "%" stay part of the file name.
func sqliteDSN(cfg SQLiteConfig) string {
	segments := strings.Split(cfg.Path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		strings.Join(segments, "/"), cfg.BusyTimeout.Milliseconds())
}

// OpenSQLite opens the database with WAL pragmas and runs the schema migration.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("pages: sqlite path is required")
	}

	db, err := sql.Open("sqlite", sqliteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("pages: open failed: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pages: ping failed: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pages: migration failed: %w", err)
	}

	logger().Debug().Str("path", cfg.Path).Msg("page database opened")

	return &SQLiteStore{db: db, path: cfg.Path}, nil
}

// List returns all pages, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Page, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hash, name, content, date, author FROM pages ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("pages: list failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	pages := make([]Page, 0)
	for rows.Next() {
		var (
			p    Page
			date string
		)
		if err := rows.Scan(&p.ID, &p.Hash, &p.Name, &p.Content, &date, &p.Author); err != nil {
			return nil, fmt.Errorf("pages: scan failed: %w", err)
		}
		p.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("pages: page %s has invalid date %q: %w", p.Hash, date, err)
		}
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// Insert stores a new page and returns it with its assigned ID.
func (s *SQLiteStore) Insert(ctx context.Context, page Page) (Page, error) {
	if s.closed.Load() {
		return Page{}, ErrClosed
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (hash, name, content, date, author) VALUES (?, ?, ?, ?, ?)`,
		page.Hash, page.Name, page.Content, formatDate(page.Date), page.Author)
	if err != nil {
		if isUniqueViolation(err) {
			return Page{}, fmt.Errorf("%w: %s", ErrPageExists, page.Hash)
		}
		return Page{}, fmt.Errorf("pages: insert failed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Page{}, fmt.Errorf("pages: insert failed: %w", err)
	}
	page.ID = id
	return page, nil
}

// Update replaces the name, content, date and author of the page with page.Hash.
func (s *SQLiteStore) Update(ctx context.Context, page Page) error {
	if s.closed.Load() {
		return ErrClosed
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE pages SET name = ?, content = ?, date = ?, author = ? WHERE hash = ?`,
		page.Name, page.Content, formatDate(page.Date), page.Author, page.Hash)
	if err != nil {
		return fmt.Errorf("pages: update failed: %w", err)
	}
	return requireAffected(res, page.Hash)
}

// Delete removes the page with the given hash.
func (s *SQLiteStore) Delete(ctx context.Context, hash string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("pages: delete failed: %w", err)
	}
	return requireAffected(res, hash)
}

// Close closes the database. Calling Close twice is a no-op.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	logger().Debug().Str("path", s.path).Msg("page database closed")
	return s.db.Close()
}

func requireAffected(res sql.Result, hash string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pages: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, hash)
	}
	return nil
}

// isUniqueViolation matches the driver's constraint message; the hash column
// is the only unique constraint in the schema.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
