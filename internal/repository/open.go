package repository

import (
	"context"
	"fmt"
	"strings"

	"dayboard/internal/domain"
	"dayboard/internal/repository/file"
	"dayboard/internal/repository/postgres"
	"dayboard/internal/repository/sqlite"
)

// Config selects and configures a blob store backend.
//
// Driver values:
//   - "file": one JSON file per calendar under Path (default)
//   - "sqlite": SQLite database file at Path
//   - "postgres": Postgres at DBUrl
type Config struct {
	Driver string
	DBUrl  string
	Path   string
}

// Open returns the blob store for cfg.Driver. An empty driver means "file".
func Open(ctx context.Context, cfg Config) (domain.BlobStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		return file.Open(cfg.Path)
	case "sqlite":
		return sqlite.Open(ctx, cfg.Path)
	case "postgres":
		return postgres.Open(ctx, cfg.DBUrl)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
