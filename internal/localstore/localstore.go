package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the on-device durable key-value store. Each entity store keeps
// one serialized snapshot blob here under its own key, so the app stays
// usable when the remote backend is unreachable.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite-backed store at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating local store dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv_blobs (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the blob stored under key, or (nil, nil) when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(
		ctx,
		`SELECT value FROM kv_blobs WHERE key = ?`,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores the blob under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO kv_blobs (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_blobs WHERE key = ?`, key)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
