package repository

import (
	"context"

	"invoicing/internal/domain/model"
)

type InvoiceLineRepository interface {
	List(ctx context.Context) ([]model.InvoiceLine, error)
	ListByInvoiceID(ctx context.Context, invoiceID int64) ([]model.InvoiceLine, error)

	// CreateBulk stamps invoiceID onto lines and inserts them.
	// The returned lines carry their assigned ids.
	CreateBulk(ctx context.Context, invoiceID int64, lines []model.InvoiceLine) ([]model.InvoiceLine, error)

	DeleteByIDs(ctx context.Context, ids []int64) error
	DeleteByInvoiceID(ctx context.Context, invoiceID int64) (int64, error)
}
