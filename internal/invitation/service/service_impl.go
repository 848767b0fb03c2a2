package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	"github.com/slotbook/slotbook/internal/authz"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/invitation/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	obsmetrics "github.com/slotbook/slotbook/internal/observability/metrics"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenBytes = 32

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	GenID      *snowflake.Node
	Config     config.Config
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
	MemberSvc  memberdomain.Service
	Authz      authz.Service
	AuditSvc   auditdomain.Service `optional:"true"`
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	inviteTTL  time.Duration
	repo       domain.Repository
	memberRepo memberdomain.Repository
	memberSvc  memberdomain.Service
	authz      authz.Service
	auditSvc   auditdomain.Service
	metrics    *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	ttlDays := p.Config.InviteTTLDays
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invitation.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		inviteTTL:  time.Duration(ttlDays) * 24 * time.Hour,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
		memberSvc:  p.MemberSvc,
		authz:      p.Authz,
		auditSvc:   p.AuditSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Invitation, error) {
	if req.BusinessID == 0 {
		return nil, domain.ErrInvalidBusiness
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if !policydomain.ValidRole(req.Role) || req.Role == policydomain.RoleOwner {
		return nil, domain.ErrInvalidRole
	}

	// The email must not already belong to an active member.
	existing, err := s.memberRepo.FindActiveByBusinessEmail(ctx, req.BusinessID, email)
	if err != nil && !errors.Is(err, memberdomain.ErrMembershipNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyMember
	}

	now := s.clock.Now()

	pending, err := s.repo.FindPendingByBusinessEmail(ctx, req.BusinessID, email)
	if err != nil && !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}
	if pending != nil {
		if !pending.ExpiredAt(now) {
			return nil, domain.ErrDuplicatePendingInvitation
		}
		// A stale pending row blocks the partial unique index; expire it
		// so the new invitation can land.
		if err := s.expire(ctx, pending); err != nil {
			return nil, err
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	invitation := &domain.Invitation{
		ID:         s.genID.Generate(),
		BusinessID: req.BusinessID,
		Email:      email,
		Role:       req.Role,
		Token:      token,
		Status:     domain.StatusPending,
		InvitedBy:  req.InvitedBy,
		ExpiresAt:  now.Add(s.inviteTTL),
		CreatedAt:  now,
	}

	if err := s.repo.Insert(ctx, invitation); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicatePendingInvitation
		}
		return nil, err
	}

	s.metrics.RecordInvitationTransition(ctx, string(domain.StatusPending))
	s.audit(ctx, invitation.BusinessID, req.InvitedBy, auditdomain.ActionInviteMember, invitation, map[string]any{
		"email": email,
		"role":  req.Role,
	})

	s.log.Info("invitation created",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("business_id", invitation.BusinessID.String()),
		zap.String("role", invitation.Role),
	)
	return invitation, nil
}

func (s *Service) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	invitation, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation.Pending() && invitation.ExpiredAt(s.clock.Now()) {
		if err := s.expire(ctx, invitation); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvitationExpired
	}
	return invitation, nil
}

func (s *Service) Accept(ctx context.Context, token string, userID snowflake.ID) (*memberdomain.BusinessMember, error) {
	if userID == 0 {
		return nil, memberdomain.ErrInvalidUser
	}

	invitation, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.gatePending(ctx, invitation); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var member *memberdomain.BusinessMember

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err = s.memberSvc.CreateInTx(ctx, tx, memberdomain.CreateRequest{
			UserID:     userID,
			BusinessID: invitation.BusinessID,
			Role:       invitation.Role,
			InvitedBy:  &invitation.InvitedBy,
		})
		if err != nil {
			return err
		}

		invitation.Status = domain.StatusAccepted
		invitation.AcceptedAt = &now
		return s.repo.WithTx(tx).MarkAccepted(ctx, invitation)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvitationTransition(ctx, string(domain.StatusAccepted))
	s.audit(ctx, invitation.BusinessID, userID, auditdomain.ActionAcceptInvitation, invitation, map[string]any{
		"membership_id": member.ID.String(),
		"role":          invitation.Role,
	})

	s.log.Info("invitation accepted",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("membership_id", member.ID.String()),
	)
	return member, nil
}

func (s *Service) Reject(ctx context.Context, token string) (*domain.Invitation, error) {
	invitation, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.gatePending(ctx, invitation); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, invitation.ID, domain.StatusRejected); err != nil {
		return nil, err
	}
	invitation.Status = domain.StatusRejected

	s.metrics.RecordInvitationTransition(ctx, string(domain.StatusRejected))
	s.log.Info("invitation rejected", zap.String("invitation_id", invitation.ID.String()))
	return invitation, nil
}

func (s *Service) Cancel(ctx context.Context, invitationID, actorID snowflake.ID) error {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}

	if err := s.authz.Require(ctx, actorID, invitation.BusinessID, policydomain.FeatureMembers, policydomain.AccessWrite); err != nil {
		return err
	}
	if err := s.gatePending(ctx, invitation); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, invitation.ID); err != nil {
		return err
	}

	s.audit(ctx, invitation.BusinessID, actorID, auditdomain.ActionCancelInvitation, invitation, map[string]any{
		"email": invitation.Email,
	})
	s.log.Info("invitation cancelled", zap.String("invitation_id", invitation.ID.String()))
	return nil
}

func (s *Service) ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]domain.Invitation, error) {
	if businessID == 0 {
		return nil, domain.ErrInvalidBusiness
	}

	invitations, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range invitations {
		if invitations[i].Pending() && invitations[i].ExpiredAt(now) {
			if err := s.expire(ctx, &invitations[i]); err != nil {
				return nil, err
			}
		}
	}
	return invitations, nil
}

// gatePending enforces the shared accept/reject/cancel preconditions:
// the invitation must still be pending and not past expiry. A stale
// pending invitation is flipped to expired before the operation fails.
func (s *Service) gatePending(ctx context.Context, invitation *domain.Invitation) error {
	if !invitation.Pending() {
		return domain.ErrInvitationAlreadyResolved
	}
	if invitation.ExpiredAt(s.clock.Now()) {
		if err := s.expire(ctx, invitation); err != nil {
			return err
		}
		return domain.ErrInvitationExpired
	}
	return nil
}

func (s *Service) expire(ctx context.Context, invitation *domain.Invitation) error {
	if err := s.repo.UpdateStatus(ctx, invitation.ID, domain.StatusExpired); err != nil {
		return err
	}
	invitation.Status = domain.StatusExpired
	s.metrics.RecordInvitationTransition(ctx, string(domain.StatusExpired))
	return nil
}

func (s *Service) audit(ctx context.Context, businessID, userID snowflake.ID, action string, invitation *domain.Invitation, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := invitation.ID.String()
	_ = s.auditSvc.Record(ctx, &businessID, &userID, action, "invitation", &targetID, metadata)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
