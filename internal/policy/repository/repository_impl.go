package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/policy/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *repository) Upsert(ctx context.Context, policy *domain.MemberPolicy) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "business_member_id"},
			{Name: "feature"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"access", "updated_at"}),
	}).Create(policy).Error
}

func (r *repository) InsertAll(ctx context.Context, policies []domain.MemberPolicy) error {
	if len(policies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&policies).Error
}

func (r *repository) ListByMember(ctx context.Context, membershipID snowflake.ID) ([]domain.MemberPolicy, error) {
	var policies []domain.MemberPolicy
	err := r.db.WithContext(ctx).
		Where("business_member_id = ?", membershipID).
		Order("feature ASC").
		Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}
