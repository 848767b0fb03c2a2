package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
)

func (s *Server) CreateBusiness(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req businessdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	biz, err := s.businessSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, biz)
}

func (s *Server) GetBusiness(c *gin.Context) {
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

	// Any active member may view the business record.
	perms, err := s.authzSvc.Permissions(c.Request.Context(), userID, businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if perms == nil {
		AbortWithError(c, businessdomain.ErrBusinessNotFound)
		return
	}

	biz, err := s.businessSvc.GetByID(c.Request.Context(), businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

func (s *Server) GetBusinessBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	biz, err := s.businessSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

func (s *Server) GetDefaultBusiness(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	biz, err := s.businessSvc.DefaultForUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

type updateSettingsRequest struct {
	Settings map[string]any `json:"settings"`
}

func (s *Server) UpdateBusinessSettings(c *gin.Context) {
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

	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureSettings, policydomain.AccessWrite); err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	biz, err := s.businessSvc.UpdateSettings(c.Request.Context(), businessID, req.Settings)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

func (s *Server) GetMyPermissions(c *gin.Context) {
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

	perms, err := s.authzSvc.Permissions(c.Request.Context(), userID, businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if perms == nil {
		AbortWithError(c, businessdomain.ErrBusinessNotFound)
		return
	}
	c.JSON(http.StatusOK, perms)
}
