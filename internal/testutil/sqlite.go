// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"invoicing/internal/config"
	infradb "invoicing/internal/infra/db"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SQLiteConfig returns a config pointing at an in-memory database private
// to the running test.
func SQLiteConfig(t testing.TB) config.Config {
	return config.Config{
		AppEnv:      "test",
		DBDriver:    config.DriverSQLite,
		DBPath:      fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_")),
		DBLogLevel:  "silent",
		StockPolicy: config.PolicyStrict,
	}
}

// OpenDB opens and migrates an in-memory SQLite database that lives until
// the test ends.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := infradb.Open(SQLiteConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = infradb.Close(db) })

	require.NoError(t, infradb.Migrate(context.Background(), db, zap.NewNop()))
	return db
}
