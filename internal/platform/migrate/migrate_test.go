package migrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{
		"migrations/0002_notes.sql": {Data: []byte("-- +migrate Up\nALTER TABLE widgets ADD COLUMN notes TEXT;\n-- +migrate Down\nSELECT 1;")},
		"migrations/0001_init.sql":  {Data: []byte("-- +migrate Up\nCREATE TABLE widgets (id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE widgets;")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}

	t.Run("applies files in order and records them", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, Apply(ctx, db, SQLite, fsys, "migrations"))

		_, err := db.ExecContext(ctx, "INSERT INTO widgets (id, notes) VALUES (1, 'x')")
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		db := openMemory(t)
		require.NoError(t, Apply(ctx, db, SQLite, fsys, "migrations"))
		require.NoError(t, Apply(ctx, db, SQLite, fsys, "migrations"))
	})

	t.Run("broken migration is reported", func(t *testing.T) {
		db := openMemory(t)
		broken := fstest.MapFS{"0001_bad.sql": {Data: []byte("CREATE TABLE (")}}
		err := Apply(ctx, db, SQLite, broken, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "0001_bad.sql")
	})
}

func TestExtractUp(t *testing.T) {
	assert.Equal(t, "\nA;\n", ExtractUp("-- +migrate Up\nA;\n-- +migrate Down\nB;"))
	assert.Equal(t, "A;", ExtractUp("A;"))
	assert.Equal(t, "\nA;", ExtractUp("-- +migrate Up\nA;"))
}
