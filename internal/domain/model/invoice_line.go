package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceLine struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID int64 `gorm:"not null;index" json:"invoice_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Qty       int64 `gorm:"not null" json:"qty"`

	// Price is the unit price captured when the line was written.
	// Later catalog price changes never touch it.
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// AmountHT is qty * price before tax.
func (l InvoiceLine) AmountHT() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Qty))
}
