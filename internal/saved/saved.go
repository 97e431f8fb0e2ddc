// Package saved persists the user-curated article list, keyed by link. It is
// fully independent of the ingestion pipeline.
package saved

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_articles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    link        TEXT UNIQUE NOT NULL,
    title       TEXT NOT NULL,
    source      TEXT,
    source_id   TEXT,
    date        TEXT,
    description TEXT,
    saved_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Article is one saved entry. Date is kept as the display string the feed
// carried; a save must not fail because a source had no parseable date.
type Article struct {
	Link        string    `json:"link"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	SourceID    string    `json:"sourceId"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	SavedAt     time.Time `json:"savedAt"`
}

// Store is the SQLite-backed saved-article repository.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the store at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open saved database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// List returns all saved articles, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT link, title, source, source_id, date, description, saved_at
		FROM saved_articles ORDER BY saved_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list saved articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.Link, &a.Title, &a.Source, &a.SourceID, &a.Date, &a.Description, &a.SavedAt); err != nil {
			return nil, fmt.Errorf("scan saved article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Save stores an article. Saving an already-saved link is a no-op; the
// returned bool reports whether a new row was written.
func (s *Store) Save(ctx context.Context, a Article) (bool, error) {
	if a.Link == "" || a.Title == "" {
		return false, fmt.Errorf("link and title are required")
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO saved_articles (link, title, source, source_id, date, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.Link, a.Title, a.Source, a.SourceID, a.Date, a.Description)
	if err != nil {
		return false, fmt.Errorf("save article: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove deletes a saved article by link.
func (s *Store) Remove(ctx context.Context, link string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM saved_articles WHERE link = ?", link); err != nil {
		return fmt.Errorf("remove article: %w", err)
	}
	return nil
}

// CheckLinks reports which of the given links are saved.
func (s *Store) CheckLinks(ctx context.Context, links []string) ([]string, error) {
	if len(links) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(links)), ",")
	args := make([]any, len(links))
	for i, l := range links {
		args[i] = l
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT link FROM saved_articles WHERE link IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("check saved links: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scan saved link: %w", err)
		}
		found = append(found, link)
	}
	return found, rows.Err()
}
