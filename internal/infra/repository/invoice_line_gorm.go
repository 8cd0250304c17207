package repository

import (
	"context"

	"invoicing/internal/domain/model"

	"gorm.io/gorm"
)

type InvoiceLineGormRepository struct {
	db *gorm.DB
}

func NewInvoiceLineGormRepository(db *gorm.DB) *InvoiceLineGormRepository {
	return &InvoiceLineGormRepository{db: db}
}

func (r *InvoiceLineGormRepository) List(ctx context.Context) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine
	if err := r.db.WithContext(ctx).Order("id asc").Find(&lines).Error; err != nil {
		return []model.InvoiceLine{}, translate(err)
	}
	return lines, nil
}

func (r *InvoiceLineGormRepository) ListByInvoiceID(ctx context.Context, invoiceID int64) ([]model.InvoiceLine, error) {
	var lines []model.InvoiceLine
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("id asc").Find(&lines).Error
	if err != nil {
		return []model.InvoiceLine{}, translate(err)
	}
	return lines, nil
}

func (r *InvoiceLineGormRepository) CreateBulk(ctx context.Context, invoiceID int64, lines []model.InvoiceLine) ([]model.InvoiceLine, error) {
	if len(lines) == 0 {
		return []model.InvoiceLine{}, nil
	}
	out := make([]model.InvoiceLine, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].ID = 0
		out[i].InvoiceID = invoiceID
	}
	if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
		return []model.InvoiceLine{}, translate(err)
	}
	return out, nil
}

func (r *InvoiceLineGormRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.InvoiceLine{})
	return translate(res.Error)
}

func (r *InvoiceLineGormRepository) DeleteByInvoiceID(ctx context.Context, invoiceID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceLine{})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}
