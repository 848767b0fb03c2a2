package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type Service interface {
	// Create inserts the business and bootstraps the creator's owner
	// membership, default policies included, in one transaction. This is
	// the only membership-creation path besides invitation acceptance.
	Create(ctx context.Context, ownerID snowflake.ID, req CreateRequest) (*Business, error)

	GetByID(ctx context.Context, id snowflake.ID) (*Business, error)

	// GetBySlug is the public booking-page lookup; it requires no caller
	// identity.
	GetBySlug(ctx context.Context, slug string) (*Business, error)

	UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) (*Business, error)

	// DefaultForUser resolves the user's default business: the earliest
	// active membership by creation time.
	DefaultForUser(ctx context.Context, userID snowflake.ID) (*Business, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, business *Business) error
	FindByID(ctx context.Context, id snowflake.ID) (*Business, error)
	FindBySlug(ctx context.Context, slug string) (*Business, error)
	UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) error
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidTimezone  = errors.New("invalid_timezone")
	ErrBusinessNotFound = errors.New("business_not_found")
	ErrDuplicateSlug    = errors.New("duplicate_slug")
)
