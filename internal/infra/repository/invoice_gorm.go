package repository

import (
	"context"

	"invoicing/internal/domain/model"

	"gorm.io/gorm"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) List(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := r.db.WithContext(ctx).Order("id asc").Find(&invoices).Error; err != nil {
		return []model.Invoice{}, translate(err)
	}
	return invoices, nil
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, id int64) (model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return model.Invoice{}, translate(err)
	}
	return inv, nil
}

func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return model.Invoice{}, translate(err)
	}
	return inv, nil
}

func (r *InvoiceGormRepository) Update(ctx context.Context, inv model.Invoice) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
		"client_id": inv.ClientID,
		"date":      inv.Date,
		"total":     inv.Total,
	})
	return affected(res)
}

func (r *InvoiceGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Invoice{}, id))
}
