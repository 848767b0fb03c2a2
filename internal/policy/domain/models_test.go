package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessLevelAllows(t *testing.T) {
	cases := []struct {
		level AccessLevel
		min   AccessLevel
		want  bool
	}{
		{AccessDisabled, AccessRead, false},
		{AccessDisabled, AccessWrite, false},
		{AccessDisabled, AccessDisabled, true},
		{AccessRead, AccessRead, true},
		{AccessRead, AccessWrite, false},
		{AccessWrite, AccessRead, true},
		{AccessWrite, AccessWrite, true},
		{AccessLevel("bogus"), AccessDisabled, false},
		{AccessRead, AccessLevel("bogus"), false},
	}

	for _, tc := range cases {
		if got := tc.level.Allows(tc.min); got != tc.want {
			t.Errorf("Allows(%q >= %q) = %v, want %v", tc.level, tc.min, got, tc.want)
		}
	}
}

func TestDefaultPoliciesByRole(t *testing.T) {
	expected := map[string]map[Feature]AccessLevel{
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

	for role, want := range expected {
		defaults := DefaultPolicies(role)
		require.Len(t, defaults, len(Features()), "role %s", role)

		seen := map[Feature]AccessLevel{}
		for _, def := range defaults {
			_, dup := seen[def.Feature]
			require.False(t, dup, "duplicate feature %s for role %s", def.Feature, role)
			seen[def.Feature] = def.Access
		}
		require.Equal(t, want, seen, "role %s", role)
	}
}

func TestDefaultPoliciesUnknownRoleFallsBackToMember(t *testing.T) {
	unknown := DefaultPolicies("superuser")
	member := DefaultPolicies(RoleMember)
	require.Equal(t, member, unknown)
}

func TestFeatureValid(t *testing.T) {
	for _, feature := range Features() {
		require.True(t, feature.Valid())
	}
	require.False(t, Feature("billing").Valid())
	require.False(t, Feature("").Valid())
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleOwner, RoleAdmin, RoleStaff, RoleMember} {
		require.True(t, ValidRole(role))
	}
	require.False(t, ValidRole("superuser"))
	require.False(t, ValidRole(""))
}
