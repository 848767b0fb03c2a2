package authz

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	obsmetrics "github.com/slotbook/slotbook/internal/observability/metrics"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Members  memberdomain.Repository
	AuditSvc auditdomain.Service  `optional:"true"`
	Metrics  *obsmetrics.Metrics  `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	members  memberdomain.Repository
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authz.service"),
		members:  p.Members,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *ServiceImpl) CanRead(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (bool, error) {
	level, err := s.AccessLevel(ctx, userID, businessID, feature)
	if err != nil {
		return false, err
	}
	return level.Allows(policydomain.AccessRead), nil
}

func (s *ServiceImpl) CanWrite(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (bool, error) {
	level, err := s.AccessLevel(ctx, userID, businessID, feature)
	if err != nil {
		return false, err
	}
	return level.Allows(policydomain.AccessWrite), nil
}

func (s *ServiceImpl) AccessLevel(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (policydomain.AccessLevel, error) {
	if userID == 0 {
		return policydomain.AccessDisabled, ErrInvalidUser
	}
	if businessID == 0 {
		return policydomain.AccessDisabled, ErrInvalidBusiness
	}
	if !feature.Valid() {
		return policydomain.AccessDisabled, ErrInvalidFeature
	}

	member, err := s.members.FindByBusinessUser(ctx, businessID, userID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMembershipNotFound) {
			return policydomain.AccessDisabled, nil
		}
		return policydomain.AccessDisabled, err
	}

	// Status gates before policy lookup: a left member's policy rows are
	// still on disk but grant nothing.
	if !member.Active() {
		return policydomain.AccessDisabled, nil
	}

	return member.PolicyFor(feature), nil
}

func (s *ServiceImpl) IsOwner(ctx context.Context, userID, businessID snowflake.ID) (bool, error) {
	if userID == 0 {
		return false, ErrInvalidUser
	}
	if businessID == 0 {
		return false, ErrInvalidBusiness
	}

	member, err := s.members.FindByBusinessUser(ctx, businessID, userID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMembershipNotFound) {
			return false, nil
		}
		return false, err
	}

	return member.Active() && member.Role == policydomain.RoleOwner, nil
}

func (s *ServiceImpl) Permissions(ctx context.Context, userID, businessID snowflake.ID) (*UserPermissions, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	if businessID == 0 {
		return nil, ErrInvalidBusiness
	}

	member, err := s.members.FindByBusinessUser(ctx, businessID, userID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMembershipNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !member.Active() {
		return nil, nil
	}

	permissions := make(map[policydomain.Feature]policydomain.AccessLevel, len(policydomain.Features()))
	for _, feature := range policydomain.Features() {
		permissions[feature] = member.PolicyFor(feature)
	}

	return &UserPermissions{
		Membership:  member,
		Permissions: permissions,
	}, nil
}

func (s *ServiceImpl) Require(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature, min policydomain.AccessLevel) error {
	level, err := s.AccessLevel(ctx, userID, businessID, feature)
	if err != nil {
		return err
	}

	allowed := level.Allows(min)
	s.metrics.RecordAuthzDecision(ctx, string(feature), allowed)

	if !allowed {
		s.auditDenied(ctx, userID, businessID, feature, min)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) auditDenied(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature, min policydomain.AccessLevel) {
	if s.auditSvc == nil {
		return
	}
	targetID := string(feature)
	_ = s.auditSvc.Record(ctx, &businessID, &userID, auditdomain.ActionAccessDenied, "feature", &targetID, map[string]any{
		"required": string(min),
	})
}
