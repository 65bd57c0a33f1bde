package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"dayboard/internal/domain"
)

// BlobStore persists serialized calendars in a single key/value table.
type BlobStore struct {
	DB *sql.DB
}

// NewBlobStore returns a BlobStore over db. Call Migrate once before use.
func NewBlobStore(db *sql.DB) *BlobStore {
	return &BlobStore{DB: db}
}

// Open connects to Postgres with the given URL and ensures the schema exists.
func Open(ctx context.Context, dbURL string) (domain.BlobStore, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	store := NewBlobStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the blob table if it does not exist.
func (s *BlobStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS calendar_blobs (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM calendar_blobs WHERE key = $1`
	var value []byte
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO calendar_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.DB.ExecContext(ctx, query, key, value)
	return err
}

func (s *BlobStore) Close() error {
	return s.DB.Close()
}
