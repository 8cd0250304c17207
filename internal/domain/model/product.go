package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string          `gorm:"type:varchar(255);not null" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	// Quantity is the stock on hand. Only the inventory reconciler and an
	// explicit stock set write it after creation.
	Quantity int64 `gorm:"not null;default:0" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
