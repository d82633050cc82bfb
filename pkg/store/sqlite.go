package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS field_values (
	item  TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (item, key)
);`

// SQLite persists field values in a SQLite database, values JSON-encoded.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) a SQLite-backed store at the
// given DSN. Use ":memory:" for an ephemeral database.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, item uuid.UUID, key string) (any, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM field_values WHERE item = ? AND key = ?`,
		item.String(), key,
	).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", item, key, err)
	}

	var value any
	if err := json.Unmarshal([]byte(encoded), &value); err != nil {
		return nil, fmt.Errorf("store: decode %s/%s: %w", item, key, err)
	}
	return value, nil
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, item uuid.UUID, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", item, key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO field_values (item, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (item, key) DO UPDATE SET value = excluded.value`,
		item.String(), key, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("store: set %s/%s: %w", item, key, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, item uuid.UUID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM field_values WHERE item = ? AND key = ?`,
		item.String(), key,
	)
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", item, key, err)
	}
	return nil
}

// Keys implements Store.
func (s *SQLite) Keys(ctx context.Context, item uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM field_values WHERE item = ? ORDER BY key`,
		item.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: keys %s: %w", item, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("store: keys %s: %w", item, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: keys %s: %w", item, err)
	}
	return keys, nil
}
