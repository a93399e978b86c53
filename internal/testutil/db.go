package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/entity"
)

var dbSeq atomic.Int64

// OpenDB opens a private in-memory SQLite database with the marketplace
// schema created, and returns it wrapped as Connections so repositories can
// be constructed against it directly.
func OpenDB(t *testing.T) *database.Connections {
	t.Helper()

	dsn := fmt.Sprintf("file:harvest_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive for the
	// duration of the test.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*entity.User)(nil), (*entity.Product)(nil), (*entity.Order)(nil)} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return &database.Connections{Writer: db, Reader: db}
}
