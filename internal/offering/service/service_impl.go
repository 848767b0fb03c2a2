package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/authz"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/offering/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
	Authz authz.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
	authz authz.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("offering.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
		authz: p.Authz,
	}
}

func (s *Service) Create(ctx context.Context, userID, businessID snowflake.ID, req domain.CreateRequest) (*domain.Offering, error) {
	if err := s.authz.Require(ctx, userID, businessID, policydomain.FeatureServices, policydomain.AccessWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.DurationMin <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()
	offering := &domain.Offering{
		ID:          s.genID.Generate(),
		BusinessID:  businessID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, offering); err != nil {
		return nil, err
	}

	s.log.Info("offering created",
		zap.String("offering_id", offering.ID.String()),
		zap.String("business_id", businessID.String()),
	)
	return offering, nil
}

func (s *Service) Update(ctx context.Context, userID, businessID, offeringID snowflake.ID, req domain.UpdateRequest) (*domain.Offering, error) {
	if err := s.authz.Require(ctx, userID, businessID, policydomain.FeatureServices, policydomain.AccessWrite); err != nil {
		return nil, err
	}

	offering, err := s.repo.FindByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if offering.BusinessID != businessID {
		return nil, domain.ErrOfferingNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		offering.Name = name
	}
	if req.Description != nil {
		offering.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, domain.ErrInvalidDuration
		}
		offering.DurationMin = *req.DurationMin
	}
	if req.PriceCents != nil {
		offering.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		offering.Active = *req.Active
	}
	offering.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, offering); err != nil {
		return nil, err
	}
	return offering, nil
}

func (s *Service) List(ctx context.Context, userID, businessID snowflake.ID) ([]domain.Offering, error) {
	if err := s.authz.Require(ctx, userID, businessID, policydomain.FeatureServices, policydomain.AccessRead); err != nil {
		return nil, err
	}
	return s.repo.ListByBusiness(ctx, businessID, false)
}

func (s *Service) ListActive(ctx context.Context, businessID snowflake.ID) ([]domain.Offering, error) {
	return s.repo.ListByBusiness(ctx, businessID, true)
}
