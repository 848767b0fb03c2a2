package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Action names recorded by the membership core. External collaborators may
// log additional action types through the same facility.
const (
	ActionInviteMember     = "invite_member"
	ActionAcceptInvitation = "accept_invitation"
	ActionCancelInvitation = "cancel_invitation"
	ActionMemberRemoved    = "remove_member"
	ActionPolicyUpdated    = "update_policy"
	ActionAccessDenied     = "access_denied"
)

// AuditLog is an append-only record. The core only writes; reads happen
// through the reporting endpoint.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	BusinessID *snowflake.ID     `gorm:"index" json:"business_id,omitempty"`
	UserID     *snowflake.ID     `gorm:"index" json:"user_id,omitempty"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"target_type"`
	TargetID   *string           `gorm:"type:text" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// AuditCursor is the keyset position for paging the log newest-first.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	BusinessID snowflake.ID
	Action     string
	TargetType string
	TargetID   string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *AuditCursor
	Limit      int
}
