package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/slotbook/slotbook/internal/auth/domain"
	"github.com/slotbook/slotbook/internal/authz"
	bookingdomain "github.com/slotbook/slotbook/internal/booking/domain"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	invitationdomain "github.com/slotbook/slotbook/internal/invitation/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	offeringdomain "github.com/slotbook/slotbook/internal/offering/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "authentication required",
		}

	// Authorization failures are uniform and non-revealing: callers
	// never learn which feature or level they were missing.
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "access denied",
		}

	// Invitation outcomes stay distinguishable: expired, already
	// resolved, and not-found each demand a different recovery action.
	case errors.Is(err, invitationdomain.ErrInvitationExpired):
		return http.StatusGone, errorPayload{
			Type:    "invitation_expired",
			Message: "this invitation has expired; ask for a new one",
		}
	case errors.Is(err, invitationdomain.ErrInvitationAlreadyResolved):
		return http.StatusConflict, errorPayload{
			Type:    "invitation_already_resolved",
			Message: "this invitation has already been used",
		}
	case errors.Is(err, invitationdomain.ErrDuplicatePendingInvitation):
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_pending_invitation",
			Message: "a pending invitation already exists for this email",
		}
	case errors.Is(err, invitationdomain.ErrAlreadyMember):
		return http.StatusConflict, errorPayload{
			Type:    "already_member",
			Message: "this email already belongs to an active member",
		}

	case errors.Is(err, memberdomain.ErrDuplicateMembership):
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_membership",
			Message: "the user is already a member of this business",
		}
	case errors.Is(err, authdomain.ErrDuplicateEmail),
		errors.Is(err, businessdomain.ErrDuplicateSlug):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "resource already exists",
		}

	case errors.Is(err, invitationdomain.ErrInvitationNotFound),
		errors.Is(err, memberdomain.ErrMembershipNotFound),
		errors.Is(err, businessdomain.ErrBusinessNotFound),
		errors.Is(err, offeringdomain.ErrOfferingNotFound),
		errors.Is(err, bookingdomain.ErrBookingNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}

	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		authdomain.ErrInvalidEmail,
		authdomain.ErrInvalidPassword,
		businessdomain.ErrInvalidName,
		businessdomain.ErrInvalidTimezone,
		invitationdomain.ErrInvalidEmail,
		invitationdomain.ErrInvalidRole,
		invitationdomain.ErrInvalidBusiness,
		memberdomain.ErrInvalidUser,
		memberdomain.ErrInvalidBusiness,
		memberdomain.ErrInvalidRole,
		policydomain.ErrInvalidMembership,
		policydomain.ErrInvalidFeature,
		policydomain.ErrInvalidAccess,
		offeringdomain.ErrInvalidName,
		offeringdomain.ErrInvalidDuration,
		bookingdomain.ErrInvalidCustomer,
		bookingdomain.ErrInvalidStart,
		bookingdomain.ErrInvalidStatus,
		authz.ErrInvalidUser,
		authz.ErrInvalidBusiness,
		authz.ErrInvalidFeature,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
