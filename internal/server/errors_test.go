package server

import (
	"fmt"
	"net/http"
	"testing"

	authdomain "github.com/slotbook/slotbook/internal/auth/domain"
	"github.com/slotbook/slotbook/internal/authz"
	invitationdomain "github.com/slotbook/slotbook/internal/invitation/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	"github.com/stretchr/testify/require"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		typ    string
	}{
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{authz.ErrForbidden, http.StatusForbidden, "forbidden"},
		{invitationdomain.ErrInvitationExpired, http.StatusGone, "invitation_expired"},
		{invitationdomain.ErrInvitationAlreadyResolved, http.StatusConflict, "invitation_already_resolved"},
		{invitationdomain.ErrDuplicatePendingInvitation, http.StatusConflict, "duplicate_pending_invitation"},
		{memberdomain.ErrDuplicateMembership, http.StatusConflict, "duplicate_membership"},
		{invitationdomain.ErrInvitationNotFound, http.StatusNotFound, "not_found"},
		{memberdomain.ErrMembershipNotFound, http.StatusNotFound, "not_found"},
		{invitationdomain.ErrInvalidEmail, http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("driver: bad connection"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		status, payload := mapError(tc.err)
		require.Equal(t, tc.status, status, "err %v", tc.err)
		require.Equal(t, tc.typ, payload.Type, "err %v", tc.err)
	}
}

// Invitation failure modes must stay distinguishable for callers; the
// acceptance UI shows a different message for each.
func TestInvitationErrorsAreDistinct(t *testing.T) {
	_, expired := mapError(invitationdomain.ErrInvitationExpired)
	_, resolved := mapError(invitationdomain.ErrInvitationAlreadyResolved)
	_, missing := mapError(invitationdomain.ErrInvitationNotFound)

	require.NotEqual(t, expired.Type, resolved.Type)
	require.NotEqual(t, expired.Type, missing.Type)
	require.NotEqual(t, resolved.Type, missing.Type)
}

// Authorization denials are uniform: the payload must not leak which
// feature or level was required.
func TestForbiddenIsNonRevealing(t *testing.T) {
	_, payload := mapError(authz.ErrForbidden)
	require.Equal(t, "access denied", payload.Message)
	require.NotContains(t, payload.Message, "members")
	require.NotContains(t, payload.Message, "write")
}
