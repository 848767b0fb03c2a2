// Package authz is the single decision point for "can user U act on
// feature F in business B". It composes the membership registry and the
// policy store; it never consults role defaults at check time. Decisions
// are evaluated fresh against persisted state on every call, so a policy
// change or a removed membership takes effect on the very next check.
package authz

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
)

// UserPermissions bulk-resolves every feature for display purposes.
type UserPermissions struct {
	Membership  *memberdomain.BusinessMember                      `json:"membership"`
	Permissions map[policydomain.Feature]policydomain.AccessLevel `json:"permissions"`
}

type Service interface {
	CanRead(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (bool, error)
	CanWrite(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (bool, error)

	// AccessLevel resolves the effective level: disabled when there is no
	// membership, the membership has left, or no policy row exists.
	AccessLevel(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature) (policydomain.AccessLevel, error)

	// IsOwner checks the role label on an active membership. It is
	// orthogonal to the policy lattice: policies cannot downgrade it, and
	// it grants nothing on its own.
	IsOwner(ctx context.Context, userID, businessID snowflake.ID) (bool, error)

	// Permissions returns the membership and every feature's level, or
	// nil when the user has no active membership.
	Permissions(ctx context.Context, userID, businessID snowflake.ID) (*UserPermissions, error)

	// Require returns ErrForbidden unless the effective access for the
	// feature satisfies min. Denials are uniform: the error carries no
	// hint of which feature or level was missing.
	Require(ctx context.Context, userID, businessID snowflake.ID, feature policydomain.Feature, min policydomain.AccessLevel) error
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidFeature  = errors.New("invalid_feature")
	ErrForbidden       = errors.New("forbidden")
)
