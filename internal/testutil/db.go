package testutil

import (
	"sync/atomic"
	"testing"

	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory SQLite database with every shop
// table migrated. The pool is pinned to one connection so the database
// lives as long as the test and transactions serialise.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate sqlite schema")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// StatementCounter counts the SQL statements gorm executes
type StatementCounter struct {
	n atomic.Int64
}

// CountStatements registers a counter on every gorm processor of db
func CountStatements(t *testing.T, db *gorm.DB) *StatementCounter {
	t.Helper()

	c := &StatementCounter{}
	inc := func(*gorm.DB) { c.n.Add(1) }
	cb := db.Callback()
	require.NoError(t, cb.Query().After("gorm:query").Register("testutil:count_query", inc))
	require.NoError(t, cb.Create().After("gorm:create").Register("testutil:count_create", inc))
	require.NoError(t, cb.Update().After("gorm:update").Register("testutil:count_update", inc))
	require.NoError(t, cb.Delete().After("gorm:delete").Register("testutil:count_delete", inc))
	require.NoError(t, cb.Row().After("gorm:row").Register("testutil:count_row", inc))
	require.NoError(t, cb.Raw().After("gorm:raw").Register("testutil:count_raw", inc))
	return c
}

// Count returns the statements seen since the last Reset
func (c *StatementCounter) Count() int64 {
	return c.n.Load()
}

// Reset zeroes the counter
func (c *StatementCounter) Reset() {
	c.n.Store(0)
}
