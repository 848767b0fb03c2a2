package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateRequest struct {
	OfferingID    snowflake.ID `json:"offering_id"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	StartAt       time.Time    `json:"start_at"`
	Notes         string       `json:"notes"`
}

type Service interface {
	// Create is the public booking-page path and takes no caller
	// identity. Slot conflicts are not checked; overlapping bookings are
	// a staff-side concern.
	Create(ctx context.Context, businessID snowflake.ID, req CreateRequest) (*Booking, error)

	// List and UpdateStatus are staff-side and gate on the bookings
	// feature.
	List(ctx context.Context, userID, businessID snowflake.ID) ([]Booking, error)
	UpdateStatus(ctx context.Context, userID, businessID, bookingID snowflake.ID, status BookingStatus) (*Booking, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id snowflake.ID) (*Booking, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status BookingStatus, updatedAt time.Time) error
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]Booking, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidStart    = errors.New("invalid_start")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrBookingNotFound = errors.New("booking_not_found")
)
