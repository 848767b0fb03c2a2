package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/slotbook/slotbook/internal/business/domain"
	"github.com/slotbook/slotbook/internal/clock"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	GenID      *snowflake.Node
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
	MemberSvc  memberdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	repo       domain.Repository
	memberRepo memberdomain.Repository
	memberSvc  memberdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("business.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
		memberSvc:  p.MemberSvc,
	}
}

func (s *Service) Create(ctx context.Context, ownerID snowflake.ID, req domain.CreateRequest) (*domain.Business, error) {
	if ownerID == 0 {
		return nil, memberdomain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, domain.ErrInvalidTimezone
	}

	now := s.clock.Now()
	businessID := s.genID.Generate()

	slugVal := slug.Make(name)
	if _, err := s.repo.FindBySlug(ctx, slugVal); err == nil {
		// Slug collision with another business name; suffix with the id
		// so the public URL stays derivable from the name.
		slugVal = fmt.Sprintf("%s-%s", slugVal, strings.ToLower(businessID.Base36()))
	} else if !errors.Is(err, domain.ErrBusinessNotFound) {
		return nil, err
	}

	business := &domain.Business{
		ID:        businessID,
		Name:      name,
		Slug:      slugVal,
		Timezone:  timezone,
		OwnerID:   ownerID,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Insert(ctx, business); err != nil {
			return err
		}

		_, err := s.memberSvc.CreateInTx(ctx, tx, memberdomain.CreateRequest{
			UserID:     ownerID,
			BusinessID: businessID,
			Role:       policydomain.RoleOwner,
		})
		return err
	})
	if err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}

	s.log.Info("business created",
		zap.String("business_id", businessID.String()),
		zap.String("slug", slugVal),
		zap.String("owner_id", ownerID.String()),
	)
	return business, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Business, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slugVal string) (*domain.Business, error) {
	slugVal = strings.TrimSpace(slugVal)
	if slugVal == "" {
		return nil, domain.ErrBusinessNotFound
	}
	return s.repo.FindBySlug(ctx, slugVal)
}

func (s *Service) UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) (*domain.Business, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) DefaultForUser(ctx context.Context, userID snowflake.ID) (*domain.Business, error) {
	if userID == 0 {
		return nil, memberdomain.ErrInvalidUser
	}

	memberships, err := s.memberRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, domain.ErrBusinessNotFound
	}

	// Earliest active membership wins: the list is ordered by created_at
	// ascending and that ordering is what makes "default business" stable.
	return s.repo.FindByID(ctx, memberships[0].BusinessID)
}
