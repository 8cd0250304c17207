package usecase

import (
	"context"

	"invoicing/internal/cache"
	"invoicing/internal/domain/model"
)

// InputValidator checks caller input before any transaction opens.
type InputValidator interface {
	ValidateClient(c model.Client) error
	ValidateProduct(p model.Product) error
	ValidateStock(quantity int64) error
	ValidateInvoice(clientID int64, lines []model.InvoiceLine) error
	ValidateLines(lines []model.InvoiceLine) error
}

// Views is the read side served by the read cache.
type Views interface {
	Clients(ctx context.Context) ([]model.Client, error)
	Products(ctx context.Context) ([]model.Product, error)
	InvoicesWithDetails(ctx context.Context) ([]model.InvoiceWithDetails, error)
	Invalidate(views ...cache.View)
}
