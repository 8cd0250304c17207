package repository

import (
	"context"

	"invoicing/internal/domain/model"
)

// InventoryRepository owns product quantities and the stock ledger.
type InventoryRepository interface {
	SetStock(ctx context.Context, productID int64, quantity int64) error
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error

	// ListAdjustments returns the ledger of one product, oldest first.
	ListAdjustments(ctx context.Context, productID int64) ([]model.InventoryAdjustment, error)
}
