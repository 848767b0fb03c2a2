package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	invitationdomain "github.com/slotbook/slotbook/internal/invitation/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
)

type createInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) CreateInvitation(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	businessID, ok := idParam(c, "id")
	if !ok {
		AbortWithError(c, businessdomain.ErrBusinessNotFound)
		return
	}

	// Invitation creation is gated here, at the entry point; the
	// workflow itself trusts its caller.
	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureMembers, policydomain.AccessWrite); err != nil {
		AbortWithError(c, err)
		return
	}

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invitation, err := s.invitationSvc.Create(c.Request.Context(), invitationdomain.CreateRequest{
		BusinessID: businessID,
		Email:      req.Email,
		Role:       req.Role,
		InvitedBy:  userID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The token is returned once, to the inviter, for delivery to the
	// invitee. It is never listed afterwards.
	c.JSON(http.StatusCreated, gin.H{
		"invitation": invitation,
		"token":      invitation.Token,
	})
}

func (s *Server) ListInvitations(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	businessID, ok := idParam(c, "id")
	if !ok {
		AbortWithError(c, businessdomain.ErrBusinessNotFound)
		return
	}

	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureMembers, policydomain.AccessRead); err != nil {
		AbortWithError(c, err)
		return
	}

	invitations, err := s.invitationSvc.ListByBusiness(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (s *Server) GetInvitation(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, invitationdomain.ErrInvitationNotFound)
		return
	}

	invitation, err := s.invitationSvc.GetByToken(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, invitationdomain.ErrInvitationNotFound)
		return
	}

	member, err := s.invitationSvc.Accept(c.Request.Context(), token, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": member})
}

func (s *Server) RejectInvitation(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, invitationdomain.ErrInvitationNotFound)
		return
	}

	invitation, err := s.invitationSvc.Reject(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

func (s *Server) CancelInvitation(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	invitationID, ok := idParam(c, "id")
	if !ok {
		AbortWithError(c, invitationdomain.ErrInvitationNotFound)
		return
	}

	if err := s.invitationSvc.Cancel(c.Request.Context(), invitationID, userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
