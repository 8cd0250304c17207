package db

import (
	"context"
	"fmt"

	"invoicing/internal/domain/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed fills an empty database with the starter clients and products.
// Nothing happens when any client already exists.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Client{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Debug("seed skipped", zap.Int64("clients", n))
			return nil
		}

		clients := []model.Client{
			{Name: "Ahmed Ali", Phone: "0501112233"},
			{Name: "Leila Salem", Phone: "0554445566"},
		}
		if err := tx.Create(&clients).Error; err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}

		products := []model.Product{
			{Name: "Laptop", Price: decimal.NewFromInt(3000), Quantity: 5},
			{Name: "Wireless mouse", Price: decimal.NewFromInt(80), Quantity: 20},
			{Name: `24" monitor`, Price: decimal.NewFromInt(1200), Quantity: 10},
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}

		log.Info("seeded database", zap.Int("clients", len(clients)), zap.Int("products", len(products)))
		return nil
	})
}
