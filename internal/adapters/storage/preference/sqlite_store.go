package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aula/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a preference store over an initialized database.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Load returns every value stored for the profile.
// PRE: profileID is non-empty
// POST: returns an empty map for an unknown profile
// INVARIANT: store state is not mutated
func (s *SQLiteStore) Load(ctx context.Context, profileID string) (map[string]string, error) {
	if err := checkProfile(profileID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value
		FROM preference
		WHERE profile_id = ?
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Get returns one value.
// PRE: profileID is non-empty
// POST: ok is false when the key is not stored
func (s *SQLiteStore) Get(ctx context.Context, profileID, key string) (string, bool, error) {
	if err := checkProfile(profileID); err != nil {
		return "", false, err
	}
	var v string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM preference WHERE profile_id = ? AND key = ?
	`, profileID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return v, true, nil
}

// Set upserts one value.
// PRE: profileID is non-empty
// POST: the value is persisted; other keys are untouched
func (s *SQLiteStore) Set(ctx context.Context, profileID, key, value string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preference (profile_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile_id, key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, profileID, key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// Remove deletes one value. Removing a missing key is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, profileID, key string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM preference WHERE profile_id = ? AND key = ?
	`, profileID, key); err != nil {
		return fmt.Errorf("remove preference %s: %w", key, err)
	}
	return nil
}

// Clear deletes every value of the profile.
func (s *SQLiteStore) Clear(ctx context.Context, profileID string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preference WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}
	return nil
}
