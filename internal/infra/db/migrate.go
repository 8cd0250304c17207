package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/domain/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaVersion is the layout version Migrate brings the database to.
const SchemaVersion = 3

// Migrate creates or extends every table and records the schema version.
// Columns are only ever added.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)

	modelsToMigrate := []interface{}{
		&model.Client{},
		&model.Product{},
		&model.Invoice{},
		&model.InvoiceLine{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
		&model.SchemaVersion{},
	}
	for _, m := range modelsToMigrate {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}

	for _, table := range []string{"clients", "products", "invoices", "invoice_lines"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}

	v := model.SchemaVersion{Version: SchemaVersion, AppliedAt: time.Now().UTC()}
	if err := db.Where(model.SchemaVersion{Version: SchemaVersion}).FirstOrCreate(&v).Error; err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	log.Info("schema ready", zap.Int("version", v.Version), zap.Time("applied_at", v.AppliedAt))
	return nil
}

// CurrentVersion returns the highest recorded schema version, 0 if none.
func CurrentVersion(ctx context.Context, db *gorm.DB) (int, error) {
	var v model.SchemaVersion
	err := db.WithContext(ctx).Order("version desc").First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v.Version, nil
}
