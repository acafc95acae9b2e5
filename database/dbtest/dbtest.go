// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/struffoli/facecard/database"
)

// New returns a migrated database in t's temp dir, closed on cleanup.
func New(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "facecard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(context.Background(), database.Migrations())
	require.NoError(t, err)

	return db.Conn
}
