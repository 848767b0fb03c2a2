package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/invitation/domain"
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

func (r *repository) Insert(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *repository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).
		First(&invitation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) FindPendingByBusinessEmail(ctx context.Context, businessID snowflake.ID, email string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND email = ? AND status = ?", businessID, email, domain.StatusPending).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.InvitationStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) MarkAccepted(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ?", invitation.ID).
		Updates(map[string]any{
			"status":      invitation.Status,
			"accepted_at": invitation.AcceptedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Invitation{}, "id = ?", id).Error
}

func (r *repository) ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}
