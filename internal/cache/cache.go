// Package cache provides the durable per-source fetch cache. It holds the
// last fetch result for every source so the aggregator can skip fresh
// refetches and fall back to stale data when a live fetch fails.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	_ "modernc.org/sqlite"
)

// TTL is the freshness window. Entries older than this are only served when
// the caller explicitly allows expired data.
const TTL = 30 * time.Minute

// Status records whether the last fetch attempt for a source worked.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Schema holds one row per source; every fetch attempt replaces the row.
const schema = `
CREATE TABLE IF NOT EXISTS source_cache (
    source_id  TEXT PRIMARY KEY,
    articles   TEXT NOT NULL,
    fetched_at TIMESTAMP NOT NULL,
    status     TEXT NOT NULL DEFAULT 'success'
);
`

// SourceStatus describes one cache entry for the status listing.
type SourceStatus struct {
	SourceID   string `json:"sourceId"`
	AgeMinutes int    `json:"age"`
	Status     Status `json:"status"`
}

// Cache is a SQLite-backed repository keyed by source id. It is safe for
// concurrent use; each entry is replaced atomically.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates (if needed) and opens the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// WAL keeps concurrent readers from blocking the per-source writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached articles for a source. It reports a miss when there
// is no entry, when the entry is expired or marked failed (unless
// allowExpired is set), and, even under allowExpired, when the stored list
// is empty, because an empty stale result is useless as a fallback.
func (c *Cache) Get(ctx context.Context, sourceID string, allowExpired bool) ([]bridge.Article, bool, error) {
	var (
		raw       string
		fetchedAt time.Time
		status    string
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT articles, fetched_at, status FROM source_cache WHERE source_id = ?",
		sourceID,
	).Scan(&raw, &fetchedAt, &status)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %s: %w", sourceID, err)
	}

	expired := c.now().Sub(fetchedAt) > TTL
	failed := Status(status) == StatusFailed
	if !allowExpired && (expired || failed) {
		return nil, false, nil
	}

	var articles []bridge.Article
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		// A corrupt entry is treated as a miss; the next Put overwrites it.
		return nil, false, nil
	}
	if allowExpired && len(articles) == 0 {
		return nil, false, nil
	}
	return articles, true, nil
}

// Put replaces the entry for a source with the given articles, the current
// timestamp, and the given status.
func (c *Cache) Put(ctx context.Context, sourceID string, articles []bridge.Article, status Status) error {
	if articles == nil {
		articles = []bridge.Article{}
	}
	raw, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode articles for %s: %w", sourceID, err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO source_cache (source_id, articles, fetched_at, status) VALUES (?, ?, ?, ?)",
		sourceID, string(raw), c.now().UTC(), string(status),
	)
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", sourceID, err)
	}
	return nil
}

// Status lists every known source with its entry age in whole minutes. This
// is an administrative view, not part of the fetch path.
func (c *Cache) Status(ctx context.Context) ([]SourceStatus, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT source_id, fetched_at, status FROM source_cache ORDER BY source_id",
	)
	if err != nil {
		return nil, fmt.Errorf("read cache status: %w", err)
	}
	defer rows.Close()

	var statuses []SourceStatus
	for rows.Next() {
		var (
			s         SourceStatus
			fetchedAt time.Time
			status    string
		)
		if err := rows.Scan(&s.SourceID, &fetchedAt, &status); err != nil {
			return nil, fmt.Errorf("scan cache status: %w", err)
		}
		s.AgeMinutes = int(c.now().Sub(fetchedAt).Round(time.Minute) / time.Minute)
		s.Status = Status(status)
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// Clear removes the entry for one source.
func (c *Cache) Clear(ctx context.Context, sourceID string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM source_cache WHERE source_id = ?", sourceID)
	if err != nil {
		return fmt.Errorf("clear cache entry %s: %w", sourceID, err)
	}
	return nil
}

// ClearAll removes every entry.
func (c *Cache) ClearAll(ctx context.Context) error {
	if _, err := c.db.Exec("DELETE FROM source_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
