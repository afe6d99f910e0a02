// Package store persists which feed entries have already been delivered.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FeedMeta records that a feed's initial snapshot has been seeded.
type FeedMeta struct {
	FeedURL       string
	InitializedAt time.Time
}

// Store is a sqlite-backed record of delivered (feed URL, entry ID) pairs.
// Records are only ever added; an entry marked delivered is never delivered
// again, even if the feed keeps reporting it.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the sqlite database and
// applies pending migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "feedhook.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single process, single logical writer. One connection avoids
	// SQLITE_BUSY between the poll loops.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Has reports whether the entry has already been delivered.
func (s *Store) Has(feedURL, entryID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM seen_entries WHERE feed_url = ? AND entry_id = ?)
	`, feedURL, entryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check entry: %w", err)
	}
	return exists, nil
}

// MarkDelivered records the entry as delivered. Marking an already
// delivered entry is a no-op.
func (s *Store) MarkDelivered(feedURL, entryID string) error {
	_, err := s.db.Exec(`
		INSERT INTO seen_entries (feed_url, entry_id, delivered_at)
		VALUES (?, ?, ?)
		ON CONFLICT (feed_url, entry_id) DO NOTHING
	`, feedURL, entryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark entry delivered: %w", err)
	}
	return nil
}

// GetFeedMeta returns the feed's initialization record, or nil if the feed
// has never been seeded.
func (s *Store) GetFeedMeta(feedURL string) (*FeedMeta, error) {
	var meta FeedMeta
	err := s.db.QueryRow(`
		SELECT feed_url, initialized_at FROM feed_meta WHERE feed_url = ?
	`, feedURL).Scan(&meta.FeedURL, &meta.InitializedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed meta: %w", err)
	}

	return &meta, nil
}

// SetFeedMeta records that the feed's initial snapshot has been seeded.
func (s *Store) SetFeedMeta(feedURL string, initializedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO feed_meta (feed_url, initialized_at)
		VALUES (?, ?)
		ON CONFLICT (feed_url) DO UPDATE SET initialized_at = excluded.initialized_at
	`, feedURL, initializedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to set feed meta: %w", err)
	}
	return nil
}

// CountSeen returns the total number of delivered entries.
func (s *Store) CountSeen() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen_entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count seen entries: %w", err)
	}
	return count, nil
}

// CountFeeds returns the number of feeds that have been seeded.
func (s *Store) CountFeeds() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM feed_meta").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}
