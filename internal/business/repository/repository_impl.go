package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/business/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, business *domain.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

func (r *repository) UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"settings":   datatypes.JSONMap(settings),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
