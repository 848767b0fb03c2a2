package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/authz"
	"github.com/slotbook/slotbook/internal/booking/domain"
	"github.com/slotbook/slotbook/internal/clock"
	offeringdomain "github.com/slotbook/slotbook/internal/offering/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Repo      domain.Repository
	Offerings offeringdomain.Repository
	Authz     authz.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	repo      domain.Repository
	offerings offeringdomain.Repository
	authz     authz.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("booking.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		repo:      p.Repo,
		offerings: p.Offerings,
		authz:     p.Authz,
	}
}

func (s *Service) Create(ctx context.Context, businessID snowflake.ID, req domain.CreateRequest) (*domain.Booking, error) {
	name := strings.TrimSpace(req.CustomerName)
	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if name == "" || email == "" {
		return nil, domain.ErrInvalidCustomer
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidCustomer
	}

	offering, err := s.offerings.FindByID(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if offering.BusinessID != businessID || !offering.Active {
		return nil, offeringdomain.ErrOfferingNotFound
	}

	now := s.clock.Now()
	if req.StartAt.IsZero() || req.StartAt.Before(now) {
		return nil, domain.ErrInvalidStart
	}

	booking := &domain.Booking{
		ID:            s.genID.Generate(),
		BusinessID:    businessID,
		OfferingID:    offering.ID,
		CustomerName:  name,
		CustomerEmail: email,
		StartAt:       req.StartAt,
		EndAt:         req.StartAt.Add(time.Duration(offering.DurationMin) * time.Minute),
		Status:        domain.StatusConfirmed,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("business_id", businessID.String()),
		zap.String("offering_id", offering.ID.String()),
	)
	return booking, nil
}

func (s *Service) List(ctx context.Context, userID, businessID snowflake.ID) ([]domain.Booking, error) {
	if err := s.authz.Require(ctx, userID, businessID, policydomain.FeatureBookings, policydomain.AccessRead); err != nil {
		return nil, err
	}
	return s.repo.ListByBusiness(ctx, businessID)
}

func (s *Service) UpdateStatus(ctx context.Context, userID, businessID, bookingID snowflake.ID, status domain.BookingStatus) (*domain.Booking, error) {
	if err := s.authz.Require(ctx, userID, businessID, policydomain.FeatureBookings, policydomain.AccessWrite); err != nil {
		return nil, err
	}

	switch status {
	case domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, domain.ErrInvalidStatus
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BusinessID != businessID {
		return nil, domain.ErrBookingNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, bookingID, status, now); err != nil {
		return nil, err
	}
	booking.Status = status
	booking.UpdatedAt = now
	return booking, nil
}
