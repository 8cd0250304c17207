package db_test

import (
	"context"
	"testing"

	"invoicing/internal/domain/model"
	infradb "invoicing/internal/infra/db"
	"invoicing/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestMigrate_RecordsVersionOnce(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	// second run is a no-op
	require.NoError(t, infradb.Migrate(ctx, db, zap.NewNop()))

	v, err := infradb.CurrentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, infradb.SchemaVersion, v)

	var n int64
	require.NoError(t, db.Model(&model.SchemaVersion{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	for _, table := range []string{"clients", "products", "invoices", "invoice_lines", "inventory_adjustments", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSeedIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	require.NoError(t, infradb.Seed(ctx, db, zap.NewNop()))
	require.NoError(t, infradb.Seed(ctx, db, zap.NewNop()))

	var clients, products int64
	require.NoError(t, db.Model(&model.Client{}).Count(&clients).Error)
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	assert.Equal(t, int64(2), clients)
	assert.Equal(t, int64(3), products)

	var laptop model.Product
	require.NoError(t, db.Where("name = ?", "Laptop").First(&laptop).Error)
	assert.Equal(t, "3000", laptop.Price.String())
	assert.Equal(t, int64(5), laptop.Quantity)
}

func TestSeed_SkipsWhenClientsExist(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Client{Name: "Existing"}).Error)
	require.NoError(t, infradb.Seed(ctx, db, zap.NewNop()))

	var products int64
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	assert.Zero(t, products)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, infradb.ParseLogLevel("silent"))
	assert.Equal(t, logger.Error, infradb.ParseLogLevel("error"))
	assert.Equal(t, logger.Info, infradb.ParseLogLevel("info"))
	assert.Equal(t, logger.Warn, infradb.ParseLogLevel("warn"))
	assert.Equal(t, logger.Warn, infradb.ParseLogLevel(""))
}
