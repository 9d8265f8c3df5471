// Package sqlite is mimic's on-disk persistence: a settings key-value table
// backing the store package and a history of finished games.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zjrosen/mimic/internal/infrastructure/migrations"
	"github.com/zjrosen/mimic/internal/log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB owns the sqlite connection and hands out repositories.
type DB struct {
	conn *sql.DB
	path string
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// NewDB opens the database at path, applies pragmas and runs migrations.
// The parent directory is created if needed. An existing file is copied to
// {path}.bak before migrating.
func NewDB(path string) (*DB, error) {
	log.Debug(log.CatDB, "Opening database", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.ErrorErr(log.CatDB, "Failed to create database directory", err, "path", dir)
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	if _, err := os.Stat(path); err == nil {
		backup := path + ".bak"
		if err := copyFile(path, backup); err != nil {
			log.ErrorErr(log.CatDB, "Failed to back up database", err, "backup", backup)
			return nil, fmt.Errorf("backing up database: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			log.ErrorErr(log.CatDB, "Failed to apply pragma", err, "pragma", p)
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if err := migrations.Run(conn); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to run migrations", err)
		return nil, err
	}

	log.Info(log.CatDB, "Database ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	log.Debug(log.CatDB, "Closing database", "path", db.path)
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Settings returns the key-value settings repository.
func (db *DB) Settings() *SettingsRepository {
	return &SettingsRepository{db: db.conn}
}

// GameResults returns the finished-game history repository.
func (db *DB) GameResults() *GameResultRepository {
	return &GameResultRepository{db: db.conn}
}

// Connection exposes the underlying *sql.DB for tests.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // G304: database path from config
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode()) //nolint:gosec // G304: derived from database path
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing backup: %w", cerr)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
