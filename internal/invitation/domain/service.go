package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	"gorm.io/gorm"
)

type CreateRequest struct {
	BusinessID snowflake.ID
	Email      string
	Role       string
	InvitedBy  snowflake.ID
}

type Service interface {
	// Create opens a pending invitation. The caller is trusted to have
	// gated entry on members:write; Create itself rejects emails that
	// already belong to an active membership and duplicate pending
	// invitations for the same (business, email).
	Create(ctx context.Context, req CreateRequest) (*Invitation, error)

	// GetByToken resolves an invitation for display. A pending invitation
	// past its expiry is flipped to expired first and the call fails with
	// ErrInvitationExpired.
	GetByToken(ctx context.Context, token string) (*Invitation, error)

	// Accept converts the invitation into a membership. The membership
	// insert, the status flip and the audit entry commit in one
	// transaction: an invitation is never marked accepted without the
	// membership existing.
	Accept(ctx context.Context, token string, userID snowflake.ID) (*memberdomain.BusinessMember, error)

	// Reject marks the invitation rejected. No membership is created.
	Reject(ctx context.Context, token string) (*Invitation, error)

	// Cancel hard-deletes a pending invitation. The actor must hold
	// write on members for the invitation's business.
	Cancel(ctx context.Context, invitationID, actorID snowflake.ID) error

	// ListByBusiness returns the business's invitations newest first,
	// lazily expiring any stale pending rows on the way out.
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]Invitation, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, invitation *Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Invitation, error)
	FindPendingByBusinessEmail(ctx context.Context, businessID snowflake.ID, email string) (*Invitation, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status InvitationStatus) error
	MarkAccepted(ctx context.Context, invitation *Invitation) error
	Delete(ctx context.Context, id snowflake.ID) error
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]Invitation, error)
}

var (
	ErrInvalidEmail               = errors.New("invalid_email")
	ErrInvalidRole                = errors.New("invalid_role")
	ErrInvalidBusiness            = errors.New("invalid_business")
	ErrInvitationNotFound         = errors.New("invitation_not_found")
	ErrInvitationExpired          = errors.New("invitation_expired")
	ErrInvitationAlreadyResolved  = errors.New("invitation_already_resolved")
	ErrDuplicatePendingInvitation = errors.New("duplicate_pending_invitation")
	ErrAlreadyMember              = errors.New("already_member")
)
