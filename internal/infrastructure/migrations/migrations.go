// Package migrations holds mimic's sqlite schema and applies it with
// golang-migrate. The SQL files are embedded into the binary.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var sqlFiles embed.FS

// FS returns the embedded migration files.
func FS() fs.FS {
	return sqlFiles
}

// New builds a migrator for db over the embedded migrations.
func New(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(sqlFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := WithInstance(db, &Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", drv)
}

// Run applies all pending migrations. An up-to-date schema is not an error.
func Run(db *sql.DB) error {
	m, err := New(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
