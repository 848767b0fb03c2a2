package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/member/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	policyservice "github.com/slotbook/slotbook/internal/policy/service"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	GenID      *snowflake.Node
	Repo       domain.Repository
	PolicyRepo policydomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	repo       domain.Repository
	policyRepo policydomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("member.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		repo:       p.Repo,
		policyRepo: p.PolicyRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.BusinessMember, error) {
	return s.create(ctx, s.db, req)
}

func (s *Service) CreateInTx(ctx context.Context, tx *gorm.DB, req domain.CreateRequest) (*domain.BusinessMember, error) {
	return s.create(ctx, tx, req)
}

func (s *Service) create(ctx context.Context, db *gorm.DB, req domain.CreateRequest) (*domain.BusinessMember, error) {
	if req.UserID == 0 {
		return nil, domain.ErrInvalidUser
	}
	if req.BusinessID == 0 {
		return nil, domain.ErrInvalidBusiness
	}
	if !policydomain.ValidRole(req.Role) {
		return nil, domain.ErrInvalidRole
	}

	// Checked precondition: the unique index still backs this under
	// concurrency, but a duplicate should fail deliberately, not as a
	// constraint error surfacing from storage.
	existing, err := s.repo.WithTx(db).FindByBusinessUser(ctx, req.BusinessID, req.UserID)
	if err != nil && !errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateMembership
	}

	now := s.clock.Now()
	member := &domain.BusinessMember{
		ID:         s.genID.Generate(),
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		Role:       req.Role,
		Status:     domain.StatusActive,
		InvitedBy:  req.InvitedBy,
		CreatedAt:  now,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Insert(ctx, member); err != nil {
			return err
		}

		policies := policyservice.SeedRows(s.genID, member.ID, req.Role, now)
		return s.policyRepo.WithTx(tx).InsertAll(ctx, policies)
	})
	if err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateMembership
		}
		return nil, err
	}

	s.log.Info("membership created",
		zap.String("membership_id", member.ID.String()),
		zap.String("business_id", req.BusinessID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("role", req.Role),
	)
	return member, nil
}

func (s *Service) Find(ctx context.Context, userID, businessID snowflake.ID) (*domain.BusinessMember, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	if businessID == 0 {
		return nil, domain.ErrInvalidBusiness
	}
	return s.repo.FindByBusinessUser(ctx, businessID, userID)
}

func (s *Service) Remove(ctx context.Context, membershipID snowflake.ID) error {
	member, err := s.repo.FindByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if member.Status == domain.StatusLeft {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, membershipID, domain.StatusLeft); err != nil {
		return err
	}

	s.log.Info("membership removed",
		zap.String("membership_id", membershipID.String()),
		zap.String("business_id", member.BusinessID.String()),
	)
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID snowflake.ID) ([]domain.BusinessMember, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListActiveByUser(ctx, userID)
}
