package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/member/domain"
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

func (r *repository) Insert(ctx context.Context, member *domain.BusinessMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) FindByBusinessUser(ctx context.Context, businessID, userID snowflake.ID) (*domain.BusinessMember, error) {
	var member domain.BusinessMember
	err := r.db.WithContext(ctx).
		Preload("Policies").
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.BusinessMember, error) {
	var member domain.BusinessMember
	err := r.db.WithContext(ctx).
		Preload("Policies").
		First(&member, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindActiveByBusinessEmail(ctx context.Context, businessID snowflake.ID, email string) (*domain.BusinessMember, error) {
	var member domain.BusinessMember
	err := r.db.WithContext(ctx).Raw(
		`SELECT m.*
		 FROM business_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.business_id = ? AND m.status = ? AND LOWER(u.email) = ?
		 LIMIT 1`,
		businessID,
		domain.StatusActive,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, domain.ErrMembershipNotFound
	}
	return &member, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.MemberStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.BusinessMember{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ListActiveByUser(ctx context.Context, userID snowflake.ID) ([]domain.BusinessMember, error) {
	var members []domain.BusinessMember
	err := r.db.WithContext(ctx).
		Preload("Policies").
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]domain.BusinessMember, error) {
	var members []domain.BusinessMember
	err := r.db.WithContext(ctx).
		Preload("Policies").
		Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
