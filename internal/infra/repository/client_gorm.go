package repository

import (
	"context"

	"invoicing/internal/domain/model"

	"gorm.io/gorm"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.WithContext(ctx).Order("id asc").Find(&clients).Error; err != nil {
		return []model.Client{}, translate(err)
	}
	return clients, nil
}

func (r *ClientGormRepository) FindByID(ctx context.Context, id int64) (model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Client{}, translate(err)
	}
	return c, nil
}

func (r *ClientGormRepository) Create(ctx context.Context, c model.Client) (model.Client, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Client{}, translate(err)
	}
	return c, nil
}

func (r *ClientGormRepository) Update(ctx context.Context, c model.Client) error {
	res := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":  c.Name,
		"phone": c.Phone,
		"email": c.Email,
	})
	return affected(res)
}

func (r *ClientGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Client{}, id))
}
