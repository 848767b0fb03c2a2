package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Service gates every staff-side operation on the services feature
// before touching storage. ListActive is the public booking-page read
// and takes no caller identity.
type Service interface {
	Create(ctx context.Context, userID, businessID snowflake.ID, req CreateRequest) (*Offering, error)
	Update(ctx context.Context, userID, businessID, offeringID snowflake.ID, req UpdateRequest) (*Offering, error)
	List(ctx context.Context, userID, businessID snowflake.ID) ([]Offering, error)
	ListActive(ctx context.Context, businessID snowflake.ID) ([]Offering, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, offering *Offering) error
	FindByID(ctx context.Context, id snowflake.ID) (*Offering, error)
	Update(ctx context.Context, offering *Offering) error
	ListByBusiness(ctx context.Context, businessID snowflake.ID, activeOnly bool) ([]Offering, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidDuration  = errors.New("invalid_duration")
	ErrOfferingNotFound = errors.New("offering_not_found")
)
