package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	zlog "github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// NewDb opens (and creates, if needed) the solder SQLite database at dbPath.
func NewDb(dbPath string) (*sql.DB, error) {
	zlog.Debug().Str("dbPath", dbPath).Msg("Initializing SQLite database")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return db, nil
}
