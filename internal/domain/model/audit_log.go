package model

import "time"

type AuditAction string

const (
	AuditActionCreateInvoice AuditAction = "CREATE_INVOICE"
	AuditActionUpdateInvoice AuditAction = "UPDATE_INVOICE"
	AuditActionDeleteInvoice AuditAction = "DELETE_INVOICE"
)

type AuditResourceType string

const (
	AuditResourceInvoice AuditResourceType = "invoice"
)

// AuditLog records one invoice lifecycle operation with before/after
// snapshots. It is written inside the same transaction as the change.
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// OperationID correlates the row with the log lines of the transaction.
	OperationID string `gorm:"type:varchar(36);not null;index" json:"operation_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
