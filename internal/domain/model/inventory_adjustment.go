package model

import "time"

// AdjustmentReason says which operation moved the stock.
type AdjustmentReason string

const (
	AdjustmentInvoiceCreate AdjustmentReason = "INVOICE_CREATE"
	AdjustmentInvoiceUpdate AdjustmentReason = "INVOICE_UPDATE"
	AdjustmentInvoiceDelete AdjustmentReason = "INVOICE_DELETE"
	AdjustmentManual        AdjustmentReason = "MANUAL"
)

// InventoryAdjustment is one row of the stock movement ledger.
type InventoryAdjustment struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64            `gorm:"not null;index" json:"product_id"`
	InvoiceID *int64           `gorm:"index" json:"invoice_id,omitempty"`
	Delta     int64            `gorm:"not null" json:"delta"`
	QtyBefore int64            `gorm:"not null" json:"qty_before"`
	QtyAfter  int64            `gorm:"not null" json:"qty_after"`
	Reason    AdjustmentReason `gorm:"type:varchar(32);not null" json:"reason"`
	Note      string           `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}
