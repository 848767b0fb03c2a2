// Package domain contains customer bookings against a business's
// offerings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking is a customer's reservation of one offering slot. Customers
// are identified by contact details, not user accounts; staff act on
// bookings through the bookings feature.
type Booking struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	BusinessID    snowflake.ID  `gorm:"not null;index" json:"business_id"`
	OfferingID    snowflake.ID  `gorm:"not null;index" json:"offering_id"`
	CustomerName  string        `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail string        `gorm:"type:text;not null" json:"customer_email"`
	StartAt       time.Time     `gorm:"not null;index" json:"start_at"`
	EndAt         time.Time     `gorm:"not null" json:"end_at"`
	Status        BookingStatus `gorm:"type:text;not null;default:'confirmed'" json:"status"`
	Notes         string        `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }
