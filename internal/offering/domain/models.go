// Package domain contains the bookable service catalog for a business.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Offering is a bookable service a business sells, e.g. a 30-minute
// consultation. Customers pick an offering on the public booking page.
type Offering struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID  snowflake.ID `gorm:"not null;index" json:"business_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	DurationMin int          `gorm:"not null" json:"duration_min"`
	PriceCents  int64        `gorm:"not null;default:0" json:"price_cents"`
	Currency    string       `gorm:"type:text;not null;default:'USD'" json:"currency"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Offering) TableName() string { return "offerings" }
