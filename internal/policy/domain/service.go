package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	// Upsert creates the policy row if absent, otherwise overwrites its
	// access level. Other features of the membership are untouched.
	Upsert(ctx context.Context, membershipID snowflake.ID, feature Feature, access AccessLevel) (*MemberPolicy, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, policy *MemberPolicy) error
	InsertAll(ctx context.Context, policies []MemberPolicy) error
	ListByMember(ctx context.Context, membershipID snowflake.ID) ([]MemberPolicy, error)
}

var (
	ErrInvalidMembership = errors.New("invalid_membership")
	ErrInvalidFeature    = errors.New("invalid_feature")
	ErrInvalidAccess     = errors.New("invalid_access")
)
