package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTursoDSN(t *testing.T) {
	assert.Equal(t, "libsql://db.turso.io", TursoDSN("libsql://db.turso.io", ""))
	assert.Equal(t, "libsql://db.turso.io?authToken=t", TursoDSN("libsql://db.turso.io", "t"))
	assert.Equal(t, "libsql://db.turso.io?tls=1&authToken=t", TursoDSN("libsql://db.turso.io?tls=1", "t"))
}

func TestCreateSchema_Idempotent(t *testing.T) {
	db, err := NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	tc := NewTableCreator()
	require.NoError(t, tc.CreateSchema(db.DB))
	require.NoError(t, tc.CreateSchema(db.DB))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestEnsureSQLiteDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ensureSQLiteDir("file:"+dir+"/nested/leads.db?_journal_mode=WAL"))
	assert.DirExists(t, dir+"/nested")
	assert.NoError(t, ensureSQLiteDir(":memory:"))
}
