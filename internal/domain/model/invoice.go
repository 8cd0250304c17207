package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat surcharge applied to every invoice subtotal (10%).
var TaxRate = decimal.New(10, -2)

type Invoice struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID int64 `gorm:"not null;index" json:"client_id"`

	// Date is the calendar day the invoice was issued (midnight UTC).
	Date time.Time `gorm:"not null" json:"date"`

	// Total is tax inclusive and always recomputed from the lines.
	Total decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// InvoiceWithDetails is the joined read view of an invoice.
// Client is nil when the referenced client no longer exists.
type InvoiceWithDetails struct {
	Invoice Invoice       `json:"invoice"`
	Client  *Client       `json:"client"`
	Lines   []InvoiceLine `json:"lines"`
}

func (d InvoiceWithDetails) Subtotal() decimal.Decimal { return Subtotal(d.Lines) }

func (d InvoiceWithDetails) Tax() decimal.Decimal { return Tax(d.Lines) }

func (d InvoiceWithDetails) Total() decimal.Decimal { return TotalWithTax(d.Lines) }

// Subtotal returns the pre-tax amount (HTT) of lines.
func Subtotal(lines []InvoiceLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.AmountHT())
	}
	return sum
}

// Tax returns the tax amount of lines, rounded to cents.
func Tax(lines []InvoiceLine) decimal.Decimal {
	return Subtotal(lines).Mul(TaxRate).Round(2)
}

// TotalWithTax returns the tax inclusive amount (TTC) of lines, rounded to cents.
func TotalWithTax(lines []InvoiceLine) decimal.Decimal {
	return Subtotal(lines).Mul(decimal.NewFromInt(1).Add(TaxRate)).Round(2)
}

// CalendarDate truncates t to midnight UTC of its UTC day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
