// Package domain contains the per-feature access grants attached to a
// business membership and the role-derived default tables used to seed them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccessLevel is the ordered access lattice: disabled < read < write.
type AccessLevel string

const (
	AccessDisabled AccessLevel = "disabled"
	AccessRead     AccessLevel = "read"
	AccessWrite    AccessLevel = "write"
)

var accessRank = map[AccessLevel]int{
	AccessDisabled: 0,
	AccessRead:     1,
	AccessWrite:    2,
}

// Valid reports whether the level is a known enum member.
func (a AccessLevel) Valid() bool {
	_, ok := accessRank[a]
	return ok
}

// Allows reports whether the level satisfies the required minimum.
// Unknown levels never satisfy anything.
func (a AccessLevel) Allows(min AccessLevel) bool {
	rank, ok := accessRank[a]
	if !ok {
		return false
	}
	minRank, ok := accessRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

// Feature is a capability domain access is granted against.
type Feature string

const (
	FeatureBookings  Feature = "bookings"
	FeatureServices  Feature = "services"
	FeatureSettings  Feature = "settings"
	FeatureMembers   Feature = "members"
	FeaturePayments  Feature = "payments"
	FeatureAnalytics Feature = "analytics"
)

// Features lists every feature in a stable order. Seeding iterates this
// slice, so a new feature added here is granted to new memberships
// automatically.
func Features() []Feature {
	return []Feature{
		FeatureBookings,
		FeatureServices,
		FeatureSettings,
		FeatureMembers,
		FeaturePayments,
		FeatureAnalytics,
	}
}

// Valid reports whether the feature is a known enum member.
func (f Feature) Valid() bool {
	switch f {
	case FeatureBookings, FeatureServices, FeatureSettings, FeatureMembers, FeaturePayments, FeatureAnalytics:
		return true
	default:
		return false
	}
}

// Role labels used for default seeding and the owner check. The label is
// not consulted by access checks; the MemberPolicy rows are the sole
// authority once a membership exists.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleMember = "member"
)

// ValidRole reports whether role is one of the known labels.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleStaff, RoleMember:
		return true
	default:
		return false
	}
}

// MemberPolicy grants one access level for one feature to one membership.
type MemberPolicy struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessMemberID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_member_policies_member_feature,priority:1" json:"business_member_id"`
	Feature          Feature      `gorm:"type:text;not null;uniqueIndex:ux_member_policies_member_feature,priority:2" json:"feature"`
	Access           AccessLevel  `gorm:"type:text;not null" json:"access"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MemberPolicy) TableName() string { return "member_policies" }

var roleDefaults = map[string]map[Feature]AccessLevel{
	RoleOwner: {
		FeatureBookings:  AccessWrite,
		FeatureServices:  AccessWrite,
		FeatureSettings:  AccessWrite,
		FeatureMembers:   AccessWrite,
		FeaturePayments:  AccessWrite,
		FeatureAnalytics: AccessWrite,
	},
	RoleAdmin: {
		FeatureBookings:  AccessWrite,
		FeatureServices:  AccessWrite,
		FeatureSettings:  AccessRead,
		FeatureMembers:   AccessRead,
		FeaturePayments:  AccessWrite,
		FeatureAnalytics: AccessRead,
	},
	RoleStaff: {
		FeatureBookings:  AccessWrite,
		FeatureServices:  AccessRead,
		FeatureSettings:  AccessDisabled,
		FeatureMembers:   AccessDisabled,
		FeaturePayments:  AccessRead,
		FeatureAnalytics: AccessRead,
	},
	RoleMember: {
		FeatureBookings:  AccessRead,
		FeatureServices:  AccessRead,
		FeatureSettings:  AccessDisabled,
		FeatureMembers:   AccessDisabled,
		FeaturePayments:  AccessDisabled,
		FeatureAnalytics: AccessDisabled,
	},
}

// DefaultPolicy pairs a feature with its role-derived access level.
type DefaultPolicy struct {
	Feature Feature
	Access  AccessLevel
}

// DefaultPolicies returns the seed set for a role, one entry per feature.
// Unrecognized roles get the member defaults: the fallback is the most
// restrictive template, never an open one.
func DefaultPolicies(role string) []DefaultPolicy {
	defaults, ok := roleDefaults[role]
	if !ok {
		defaults = roleDefaults[RoleMember]
	}

	out := make([]DefaultPolicy, 0, len(defaults))
	for _, feature := range Features() {
		out = append(out, DefaultPolicy{Feature: feature, Access: defaults[feature]})
	}
	return out
}
