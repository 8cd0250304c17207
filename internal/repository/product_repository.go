package repository

import (
	"context"

	"invoicing/internal/domain/model"
)

type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	// Update writes name and price. Quantity goes through InventoryRepository.
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}
