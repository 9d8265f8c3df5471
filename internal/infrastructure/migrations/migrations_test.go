package migrations

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func columns(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestRun_FreshDB(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Run(db))

	require.True(t, tableExists(t, db, "settings"))
	require.True(t, tableExists(t, db, "game_results"))
	require.True(t, tableExists(t, db, VersionTable))
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "second run should treat ErrNoChange as success")
}

func TestSchema_Columns(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	settings := columns(t, db, "settings")
	for _, c := range []string{"key", "value", "updated_at"} {
		require.True(t, settings[c], "settings.%s should exist", c)
	}

	results := columns(t, db, "game_results")
	for _, c := range []string{"id", "difficulty", "sound_pack", "score", "reason", "started_at", "ended_at"} {
		require.True(t, results[c], "game_results.%s should exist", c)
	}
}

func TestSchema_Constraints(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	insert := `INSERT INTO game_results (id, difficulty, sound_pack, score, reason, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := db.Exec(insert, "a", "normal", "classic", 3, "mismatch", 1, 2)
	require.NoError(t, err)

	_, err = db.Exec(insert, "b", "impossible", "classic", 3, "mismatch", 1, 2)
	require.Error(t, err, "difficulty CHECK should reject unknown values")

	_, err = db.Exec(insert, "c", "easy", "classic", -1, "mismatch", 1, 2)
	require.Error(t, err, "score CHECK should reject negatives")

	_, err = db.Exec(insert, "d", "easy", "classic", 1, "quit", 1, 2)
	require.Error(t, err, "reason CHECK should reject unknown values")
}

func TestMigrator_DownAndVersion(t *testing.T) {
	db := openTestDB(t)

	m, err := New(db)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), version)

	require.NoError(t, m.Steps(-1))
	require.False(t, tableExists(t, db, "game_results"))
	require.True(t, tableExists(t, db, "settings"))

	require.NoError(t, m.Down())
	require.False(t, tableExists(t, db, "settings"))

	_, _, err = m.Version()
	require.True(t, errors.Is(err, migrate.ErrNilVersion))
}

func TestDriver_NilConfig(t *testing.T) {
	db := openTestDB(t)
	_, err := WithInstance(db, nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestDriver_LockIsExclusive(t *testing.T) {
	db := openTestDB(t)
	d, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	require.NoError(t, d.Lock())
	require.ErrorIs(t, d.Lock(), database.ErrLocked)
	require.NoError(t, d.Unlock())
	require.ErrorIs(t, d.Unlock(), database.ErrNotLocked)
}

func TestDriver_SetVersionRoundTrip(t *testing.T) {
	db := openTestDB(t)
	d, err := WithInstance(db, &Config{VersionTable: "custom_versions"})
	require.NoError(t, err)
	require.True(t, tableExists(t, db, "custom_versions"))

	v, dirty, err := d.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, v)
	require.False(t, dirty)

	require.NoError(t, d.SetVersion(5, true))
	v, dirty, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.True(t, dirty)

	require.NoError(t, d.SetVersion(database.NilVersion, false))
	v, _, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, v)
}

func TestDriver_Drop(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	d, err := WithInstance(db, &Config{})
	require.NoError(t, err)
	require.NoError(t, d.Drop())

	require.False(t, tableExists(t, db, "settings"))
	require.False(t, tableExists(t, db, "game_results"))
}
