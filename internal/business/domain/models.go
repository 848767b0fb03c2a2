// Package domain contains persistence models for the business tenant.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Business represents a tenant. The slug is the public identifier used
// on booking pages; the id is used everywhere internally.
type Business struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex:ux_businesses_slug" json:"slug"`
	Timezone  string            `gorm:"type:text;not null;default:'UTC'" json:"timezone"`
	OwnerID   snowflake.ID      `gorm:"not null;index" json:"owner_id"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Business) TableName() string { return "businesses" }
