// Package store keeps per-day battle notes: preferred flag counts, a
// completion mark and strategy memos. Values live in a single key/value
// table addressed by keys of the form <category>_<day>[_<turn>].
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DayLabels names the day indexes used throughout the store. Index 0 is Monday.
var DayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var ErrBadDay = errors.New("day index out of range")

// DayIndex maps t to a day index, Monday = 0 through Sunday = 6.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Key builds the composite key for a category, a day and optional sub-keys.
func Key(category string, day int, rest ...any) string {
	parts := []string{category, strconv.Itoa(day)}
	for _, r := range rest {
		parts = append(parts, fmt.Sprint(r))
	}
	return strings.Join(parts, "_")
}

// DayFlags are the flag counts last entered for a day.
type DayFlags struct {
	Beat   int `json:"beat"`
	Action int `json:"action"`
	Try    int `json:"try"`
}

// Store is a SQLite backed notes store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. Use ":memory:" for a
// throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open notes db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entries (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create entries table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.execWrap(ctx, `
		INSERT INTO entries(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
}

// Delete removes the given keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := s.execWrap(ctx, "DELETE FROM entries WHERE key = ?", k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) execWrap(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error in db execution: %w", err)
	}
	return nil
}

func checkDay(day int) error {
	if day < 0 || day >= len(DayLabels) {
		return fmt.Errorf("%w: %d", ErrBadDay, day)
	}
	return nil
}
