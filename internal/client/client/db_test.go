package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/akash-siv/pen-and-paper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "reader.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "documents"))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "reader.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
}

func TestInitDatabase_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reader.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	_, err = NewRepositories(db).Documents.Put(ctx, &models.DocumentRecord{OwnerDocumentID: "b1", Name: "a.pdf", Payload: []byte("%PDF")})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	all, err := NewRepositories(db).Documents.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b1", all[0].OwnerDocumentID)
}

func TestInitDatabase_BadPath(t *testing.T) {
	t.Parallel()

	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "reader.db"))
	require.Error(t, err)
}
