package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='smartphones'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "smartphones", tableName)
}

func TestOpenForTestingIsolated(t *testing.T) {
	first, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, first.Close()) })

	second, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, second.Close()) })

	_, err = first.Exec(`INSERT INTO smartphones (name, brand, price, screen_diagonal, cameras_amount) VALUES ('X1', 'Acme', 1, 1, 1)`)
	require.NoError(t, err)

	var count int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM smartphones").Scan(&count))
	assert.Zero(t, count)
}

func TestOpenFileCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phones.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not fail on already-applied migrations.
	db, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	version, dirty, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestMigrateDownAndUp(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	require.NoError(t, Migrate(db, Down, 1))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='smartphones'").Scan(&count))
	assert.Zero(t, count)

	version, _, err := Version(db)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, Migrate(db, Up, 0))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='smartphones'").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.NoError(t, Migrate(db, Up, 0))
}

func TestMigrateUnknownDirection(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.Error(t, Migrate(db, Direction("sideways"), 0))
}

func TestConnectLeavesSchemaAlone(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "phones.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='smartphones'").Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, Migrate(db, Up, 1))
	version, _, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigrateStepsBeyondRange(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	// Already at the latest version.
	require.NoError(t, Migrate(db, Up, 1))

	require.NoError(t, Migrate(db, Down, 5))
	version, _, err := Version(db)
	require.NoError(t, err)
	assert.Zero(t, version)

	// Nothing left to roll back.
	require.NoError(t, Migrate(db, Down, 1))

	require.NoError(t, Migrate(db, Up, 5))
	version, _, err = Version(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
