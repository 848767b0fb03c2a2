package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateRequest struct {
	UserID     snowflake.ID
	BusinessID snowflake.ID
	Role       string
	InvitedBy  *snowflake.ID
}

type Service interface {
	// Create inserts the membership and its full default policy set in one
	// transaction. A membership with a partial policy set is never visible.
	Create(ctx context.Context, req CreateRequest) (*BusinessMember, error)

	// CreateInTx runs Create inside an existing transaction, for callers
	// that need the membership atomic with their own writes (invitation
	// acceptance).
	CreateInTx(ctx context.Context, tx *gorm.DB, req CreateRequest) (*BusinessMember, error)

	// Find returns the membership with policies preloaded, or
	// ErrMembershipNotFound.
	Find(ctx context.Context, userID, businessID snowflake.ID) (*BusinessMember, error)

	// Remove marks the membership as left. Removing an already-left
	// membership is a no-op. Policy rows are retained; the status gate
	// makes them inert.
	Remove(ctx context.Context, membershipID snowflake.ID) error

	// ListForUser returns the user's active memberships ordered by
	// created_at ascending. The first entry is the user's default business
	// wherever one has to be inferred.
	ListForUser(ctx context.Context, userID snowflake.ID) ([]BusinessMember, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, member *BusinessMember) error
	FindByBusinessUser(ctx context.Context, businessID, userID snowflake.ID) (*BusinessMember, error)
	FindByID(ctx context.Context, id snowflake.ID) (*BusinessMember, error)
	FindActiveByBusinessEmail(ctx context.Context, businessID snowflake.ID, email string) (*BusinessMember, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status MemberStatus) error
	ListActiveByUser(ctx context.Context, userID snowflake.ID) ([]BusinessMember, error)
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]BusinessMember, error)
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidBusiness     = errors.New("invalid_business")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrMembershipNotFound  = errors.New("membership_not_found")
	ErrDuplicateMembership = errors.New("duplicate_membership")
)
