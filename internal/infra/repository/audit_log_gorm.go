package repository

import (
	"context"
	"time"

	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(&log).Error)
}

func (r *auditLogGormRepository) Trail(ctx context.Context, q repo.AuditQuery) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(
			ofResource(q.Resource, q.ResourceID),
			withActions(q.Actions),
			createdWithin(q.Since, q.Until),
			paged(q.Page),
		).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}

func ofResource(rt model.AuditResourceType, id int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(map[string]interface{}{"resource_type": rt, "resource_id": id})
	}
}

func withActions(actions []model.AuditAction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(actions) == 0 {
			return db
		}
		return db.Where("action IN ?", actions)
	}
}

func createdWithin(since, until time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !since.IsZero() {
			db = db.Where("created_at >= ?", since)
		}
		if !until.IsZero() {
			db = db.Where("created_at < ?", until)
		}
		return db
	}
}

func paged(p repo.Page) func(*gorm.DB) *gorm.DB {
	p = p.Normalized()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}
