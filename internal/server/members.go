package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
)

func (s *Server) ListMembers(c *gin.Context) {
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

	members, err := s.memberRepo.ListByBusiness(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) RemoveMember(c *gin.Context) {
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
	memberID, ok := idParam(c, "memberId")
	if !ok {
		AbortWithError(c, memberdomain.ErrMembershipNotFound)
		return
	}

	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureMembers, policydomain.AccessWrite); err != nil {
		AbortWithError(c, err)
		return
	}

	member, err := s.memberRepo.FindByID(c.Request.Context(), memberID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if member.BusinessID != businessID {
		AbortWithError(c, memberdomain.ErrMembershipNotFound)
		return
	}

	if err := s.memberSvc.Remove(c.Request.Context(), memberID); err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := memberID.String()
	_ = s.auditSvc.Record(c.Request.Context(), &businessID, &userID, auditdomain.ActionMemberRemoved, "member", &targetID, map[string]any{
		"removed_user_id": member.UserID.String(),
	})

	c.Status(http.StatusNoContent)
}

type upsertPolicyRequest struct {
	Feature string `json:"feature"`
	Access  string `json:"access"`
}

func (s *Server) UpsertMemberPolicy(c *gin.Context) {
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
	memberID, ok := idParam(c, "memberId")
	if !ok {
		AbortWithError(c, memberdomain.ErrMembershipNotFound)
		return
	}

	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureMembers, policydomain.AccessWrite); err != nil {
		AbortWithError(c, err)
		return
	}

	member, err := s.memberRepo.FindByID(c.Request.Context(), memberID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if member.BusinessID != businessID {
		AbortWithError(c, memberdomain.ErrMembershipNotFound)
		return
	}

	var req upsertPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.policySvc.Upsert(c.Request.Context(), memberID, policydomain.Feature(req.Feature), policydomain.AccessLevel(req.Access))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := memberID.String()
	_ = s.auditSvc.Record(c.Request.Context(), &businessID, &userID, auditdomain.ActionPolicyUpdated, "member", &targetID, map[string]any{
		"feature": req.Feature,
		"access":  req.Access,
	})

	c.JSON(http.StatusOK, updated)
}
