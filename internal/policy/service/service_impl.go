package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/policy/domain"
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
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("policy.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Upsert(ctx context.Context, membershipID snowflake.ID, feature domain.Feature, access domain.AccessLevel) (*domain.MemberPolicy, error) {
	if membershipID == 0 {
		return nil, domain.ErrInvalidMembership
	}
	if !feature.Valid() {
		return nil, domain.ErrInvalidFeature
	}
	if !access.Valid() {
		return nil, domain.ErrInvalidAccess
	}

	now := s.clock.Now()
	policy := &domain.MemberPolicy{
		ID:               s.genID.Generate(),
		BusinessMemberID: membershipID,
		Feature:          feature,
		Access:           access,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Upsert(ctx, policy); err != nil {
		return nil, err
	}

	s.log.Info("policy upserted",
		zap.String("membership_id", membershipID.String()),
		zap.String("feature", string(feature)),
		zap.String("access", string(access)),
	)
	return policy, nil
}

// SeedRows builds the default policy rows for a new membership. The caller
// inserts them inside the membership-creation transaction.
func SeedRows(genID *snowflake.Node, membershipID snowflake.ID, role string, now time.Time) []domain.MemberPolicy {
	defaults := domain.DefaultPolicies(role)
	rows := make([]domain.MemberPolicy, 0, len(defaults))
	for _, def := range defaults {
		rows = append(rows, domain.MemberPolicy{
			ID:               genID.Generate(),
			BusinessMemberID: membershipID,
			Feature:          def.Feature,
			Access:           def.Access,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	return rows
}
