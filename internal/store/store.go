// Package store persists usage data in SQLite: the users seen by the bot
// (the broadcast audience) and a log of which style each user picked.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite usage database.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// New opens (creating if needed) the SQLite database at path.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		chat_id INTEGER PRIMARY KEY,
		username TEXT,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	renderTable := `
	CREATE TABLE IF NOT EXISTS render_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		family TEXT NOT NULL,
		style TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_render_chat ON render_log(chat_id);
	CREATE INDEX IF NOT EXISTS idx_render_family ON render_log(family);
	`

	for _, table := range []string{usersTable, renderTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUser records a user sighting, refreshing last_seen and username.
func (s *Store) UpsertUser(chatID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO users (chat_id, username) VALUES (?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   username = excluded.username,
		   last_seen = CURRENT_TIMESTAMP`,
		chatID, username,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", chatID, err)
	}
	return nil
}

// RecordRender logs that a user picked a style.
func (s *Store) RecordRender(chatID int64, family, style string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO render_log (chat_id, family, style) VALUES (?, ?, ?)",
		chatID, family, style,
	)
	if err != nil {
		return fmt.Errorf("failed to record render for %d: %w", chatID, err)
	}
	return nil
}

// UserIDs returns every known chat ID, the broadcast audience.
func (s *Store) UserIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT chat_id FROM users ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// StyleCount pairs a style label with its pick count.
type StyleCount struct {
	Family string
	Style  string
	Count  int
}

// Stats aggregates usage for the stats command.
type Stats struct {
	Users    int
	Renders  int
	ByFamily map[string]int
	Top      []StyleCount
}

// UsageStats aggregates user and render counts, per-family totals, and the
// most-picked styles.
func (s *Store) UsageStats(topN int) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topN <= 0 {
		topN = 10
	}

	stats := Stats{ByFamily: make(map[string]int)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.Users); err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM render_log").Scan(&stats.Renders); err != nil {
		return Stats{}, fmt.Errorf("failed to count renders: %w", err)
	}

	rows, err := s.db.Query("SELECT family, COUNT(*) FROM render_log GROUP BY family")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate families: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var family string
		var n int
		if err := rows.Scan(&family, &n); err != nil {
			return Stats{}, err
		}
		stats.ByFamily[family] = n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	top, err := s.db.Query(
		`SELECT family, style, COUNT(*) as picks
		 FROM render_log
		 GROUP BY family, style
		 ORDER BY picks DESC, family, style
		 LIMIT ?`, topN,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate styles: %w", err)
	}
	defer top.Close()
	for top.Next() {
		var sc StyleCount
		if err := top.Scan(&sc.Family, &sc.Style, &sc.Count); err != nil {
			return Stats{}, err
		}
		stats.Top = append(stats.Top, sc)
	}
	return stats, top.Err()
}

// LastSeen returns when a user was last active. Used by tests and ops
// tooling; time is parsed from SQLite's default timestamp format.
func (s *Store) LastSeen(chatID int64) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow("SELECT last_seen FROM users WHERE chat_id = ?", chatID).Scan(&raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}
