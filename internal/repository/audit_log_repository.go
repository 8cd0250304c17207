package repository

import (
	"context"
	"time"

	"invoicing/internal/domain/model"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Page is a limit/offset window. A non-positive Limit means
// DefaultPageSize; larger than MaxPageSize is clamped.
type Page struct {
	Limit  int
	Offset int
}

// Normalized returns p with its bounds applied.
func (p Page) Normalized() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// AuditQuery selects the audit trail of one resource. Empty Actions
// matches every action; a zero Since or Until leaves that end open.
// Until is exclusive.
type AuditQuery struct {
	Resource   model.AuditResourceType
	ResourceID int64
	Actions    []model.AuditAction
	Since      time.Time
	Until      time.Time
	Page       Page
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// Trail returns the rows matching q, newest first.
	Trail(ctx context.Context, q AuditQuery) ([]model.AuditLog, error)
}
