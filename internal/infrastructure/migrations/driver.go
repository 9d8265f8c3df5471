package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// VersionTable is the default name of the table tracking the schema version.
const VersionTable = "schema_migrations"

// ErrNilConfig is returned by WithInstance when called without a config.
var ErrNilConfig = errors.New("migrations: nil config")

// Config tunes the migration driver.
type Config struct {
	// VersionTable overrides the schema version table name.
	VersionTable string
	// NoTransaction runs each migration file outside a transaction.
	NoTransaction bool
}

// sqliteDriver implements golang-migrate's database.Driver on top of an
// already open *sql.DB using the ncruces sqlite driver. The stock sqlite3
// driver from golang-migrate links mattn/go-sqlite3, which registers the same
// driver name and requires cgo.
type sqliteDriver struct {
	db     *sql.DB
	cfg    Config
	locked atomic.Bool
}

var _ database.Driver = (*sqliteDriver)(nil)

// WithInstance wraps db as a migration driver and creates the version table.
func WithInstance(db *sql.DB, cfg *Config) (database.Driver, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &sqliteDriver{db: db, cfg: *cfg}
	if d.cfg.VersionTable == "" {
		d.cfg.VersionTable = VersionTable
	}
	if err := d.createVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *sqliteDriver) createVersionTable() (err error) {
	if err := d.Lock(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Unlock())
	}()

	table := d.cfg.VersionTable
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (version INTEGER NOT NULL, dirty BOOLEAN NOT NULL);
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_version ON %[1]s (version);`, table)
	_, err = d.db.Exec(ddl)
	return err
}

// Open is unsupported; connections are always supplied through WithInstance.
func (d *sqliteDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("migrations: open by URL is not supported, use WithInstance")
}

// Close closes the wrapped database.
func (d *sqliteDriver) Close() error {
	return d.db.Close()
}

// Lock is process-local; sqlite serializes writers itself.
func (d *sqliteDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock releases Lock.
func (d *sqliteDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run applies one migration file.
func (d *sqliteDriver) Run(r io.Reader) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if d.cfg.NoTransaction {
		if _, err := d.db.Exec(string(body)); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(body)); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// SetVersion records version as the only row of the version table.
func (d *sqliteDriver) SetVersion(version int, dirty bool) error {
	table := d.cfg.VersionTable
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil { //nolint:gosec // table name comes from Config
			return &database.Error{OrigErr: err, Err: "clearing version"}
		}
		// A dirty NilVersion is kept so a failed first down migration is visible.
		if version < 0 && !(version == database.NilVersion && dirty) {
			return nil
		}
		insert := "INSERT INTO " + table + " (version, dirty) VALUES (?, ?)" //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(insert, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(insert)}
		}
		return nil
	})
}

// Version reports the recorded version, or NilVersion when none is recorded.
func (d *sqliteDriver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	err := d.db.QueryRow("SELECT version, dirty FROM " + d.cfg.VersionTable + " LIMIT 1").Scan(&version, &dirty) //nolint:gosec // table name comes from Config
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return database.NilVersion, false, nil
	case err != nil:
		return 0, false, &database.Error{OrigErr: err, Err: "reading version"}
	}
	return version, dirty, nil
}

// Drop removes every table, including the version table.
func (d *sqliteDriver) Drop() error {
	names, err := d.tableNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %q", name)
		if err := d.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(stmt)
			return err
		}); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(names) == 0 {
		return nil
	}
	if _, err := d.db.Exec("VACUUM"); err != nil {
		return &database.Error{OrigErr: err, Err: "vacuum"}
	}
	return nil
}

func (d *sqliteDriver) tableNames() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Err: "listing tables"}
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (d *sqliteDriver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "begin transaction"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "commit transaction"}
	}
	return nil
}
