// Package testdb opens throwaway databases for tests.
package testdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/migrations"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/db"
)

// EnvPostgres names the DSN that switches Postgres tests on.
const EnvPostgres = "SHOP_TEST_DATABASE_URL"

// SQLite returns a migrated file-backed database under t.TempDir. A single
// connection serializes transactions the way row locks would.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))
	return gdb
}

// Postgres migrates and empties the database at SHOP_TEST_DATABASE_URL, or
// skips the test when it is unset.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(EnvPostgres)
	if dsn == "" {
		t.Skip(EnvPostgres + " not set")
	}

	require.NoError(t, migrations.Up(dsn))

	gdb, err := db.Open(t.Context(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, gdb.Exec("TRUNCATE order_items, orders, products RESTART IDENTITY CASCADE").Error)
	return gdb
}
