// Package domain holds the invitation state machine: a pending offer of
// membership that converts into a business member on acceptance.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvitationStatus enumerates the state machine. pending is the only
// non-terminal state; accepted, rejected and expired are terminal.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusRejected InvitationStatus = "rejected"
	StatusExpired  InvitationStatus = "expired"
)

// Invitation is a pending offer of membership. The token is the sole
// lookup key for get/accept/reject and is itself the capability; the id
// is only exposed for the inviter-side cancel path.
//
// Emails are stored lowercased so the partial unique index on
// (business_id, email) where status = 'pending' closes the duplicate
// race without an expression index.
type Invitation struct {
	ID         snowflake.ID     `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID     `gorm:"not null;index;uniqueIndex:ux_invitations_business_email_pending,priority:1,where:status = 'pending'" json:"business_id"`
	Email      string           `gorm:"type:text;not null;uniqueIndex:ux_invitations_business_email_pending,priority:2,where:status = 'pending'" json:"email"`
	Role       string           `gorm:"type:text;not null" json:"role"`
	Token      string           `gorm:"type:text;not null;uniqueIndex:ux_invitations_token" json:"-"`
	Status     InvitationStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`
	InvitedBy  snowflake.ID     `gorm:"not null" json:"invited_by"`
	ExpiresAt  time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "invitations" }

// Pending reports whether the invitation can still transition.
func (i *Invitation) Pending() bool {
	return i.Status == StatusPending
}

// ExpiredAt reports whether the invitation is past its expiry at the
// given instant. The expiry instant itself is still valid.
func (i *Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
