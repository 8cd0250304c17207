package repository

import (
	"context"

	"invoicing/internal/domain/model"
)

type InvoiceRepository interface {
	List(ctx context.Context) ([]model.Invoice, error)
	FindByID(ctx context.Context, id int64) (model.Invoice, error)

	Create(ctx context.Context, inv model.Invoice) (model.Invoice, error)

	// Update replaces client, date and total of an existing invoice.
	Update(ctx context.Context, inv model.Invoice) error
	Delete(ctx context.Context, id int64) error
}
