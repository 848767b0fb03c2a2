// Package domain contains the user-to-business association records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
)

type MemberStatus string

const (
	StatusActive MemberStatus = "active"
	StatusLeft   MemberStatus = "left"
)

// BusinessMember links one user to one business. The role label selects
// the default policy template at creation and backs the owner check; the
// attached MemberPolicy rows carry the actual authority.
type BusinessMember struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_business_members_business_user,priority:1" json:"business_id"`
	UserID     snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_business_members_business_user,priority:2" json:"user_id"`
	Role       string        `gorm:"type:text;not null" json:"role"`
	Status     MemberStatus  `gorm:"type:text;not null" json:"status"`
	InvitedBy  *snowflake.ID `gorm:"column:invited_by" json:"invited_by,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Policies []policydomain.MemberPolicy `gorm:"foreignKey:BusinessMemberID" json:"policies,omitempty"`
}

// TableName sets the database table name.
func (BusinessMember) TableName() string { return "business_members" }

// Active reports whether the membership still confers access.
func (m *BusinessMember) Active() bool {
	return m != nil && m.Status == StatusActive
}

// PolicyFor returns the stored access for a feature. A missing row is
// disabled; role defaults are never consulted here.
func (m *BusinessMember) PolicyFor(feature policydomain.Feature) policydomain.AccessLevel {
	if m == nil {
		return policydomain.AccessDisabled
	}
	for _, p := range m.Policies {
		if p.Feature == feature {
			return p.Access
		}
	}
	return policydomain.AccessDisabled
}
