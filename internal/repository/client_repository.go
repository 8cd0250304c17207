package repository

import (
	"context"

	"invoicing/internal/domain/model"
)

type ClientRepository interface {
	// List returns every client in id order.
	List(ctx context.Context) ([]model.Client, error)
	FindByID(ctx context.Context, id int64) (model.Client, error)

	// Create inserts c. A non-zero c.ID is kept; a taken id fails with
	// ErrConstraintViolation.
	Create(ctx context.Context, c model.Client) (model.Client, error)
	Update(ctx context.Context, c model.Client) error
	Delete(ctx context.Context, id int64) error
}
