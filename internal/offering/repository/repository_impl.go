package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/offering/domain"
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

func (r *repository) Insert(ctx context.Context, offering *domain.Offering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Offering, error) {
	var offering domain.Offering
	err := r.db.WithContext(ctx).First(&offering, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfferingNotFound
		}
		return nil, err
	}
	return &offering, nil
}

func (r *repository) Update(ctx context.Context, offering *domain.Offering) error {
	return r.db.WithContext(ctx).Save(offering).Error
}

func (r *repository) ListByBusiness(ctx context.Context, businessID snowflake.ID, activeOnly bool) ([]domain.Offering, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var offerings []domain.Offering
	if err := query.Order("created_at ASC").Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}
