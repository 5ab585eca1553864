// Package localstore is the local fallback store: a string key/value table
// with the same keys the site kept in browser local storage.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/innovation-earth/iepsite/internal/db"
)

// Well-known keys.
const (
	KeyLastActiveSection  = "lastActiveSection"
	KeyProjects           = "projects"
	KeyContactSubmissions = "contactSubmissions"
	KeyEventRegistrations = "eventRegistrations"
)

// ErrMalformed is returned when a stored list is not valid JSON.
var ErrMalformed = errors.New("malformed stored value")

// Store persists string values by key.
type Store struct {
	db *db.DB
	mu sync.Mutex // serialises read-modify-write of JSON lists
}

// NewStore creates a new local store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the value stored under key. ok is false when the key is unset.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM local_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// LoadList decodes the JSON array stored under key. A missing key yields an
// empty list. A value that does not decode yields an empty list together with
// an error wrapping ErrMalformed, so callers can log it and carry on.
func LoadList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return []T{}, err
	}
	if !ok || raw == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveList encodes items as JSON and stores them under key.
func SaveList[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// UpdateList loads the list under key, applies fn and saves the result while
// holding the store lock. A malformed stored value is replaced.
func UpdateList[T any](ctx context.Context, s *Store, key string, fn func([]T) []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := LoadList[T](ctx, s, key)
	if err != nil && !errors.Is(err, ErrMalformed) {
		return err
	}
	return SaveList(ctx, s, key, fn(items))
}
