package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	offeringdomain "github.com/slotbook/slotbook/internal/offering/domain"
)

func (s *Server) CreateOffering(c *gin.Context) {
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

	var req offeringdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offering, err := s.offeringSvc.Create(c.Request.Context(), userID, businessID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offering)
}

func (s *Server) UpdateOffering(c *gin.Context) {
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
	offeringID, ok := idParam(c, "offeringId")
	if !ok {
		AbortWithError(c, offeringdomain.ErrOfferingNotFound)
		return
	}

	var req offeringdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	offering, err := s.offeringSvc.Update(c.Request.Context(), userID, businessID, offeringID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, offering)
}

func (s *Server) ListOfferings(c *gin.Context) {
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

	offerings, err := s.offeringSvc.List(c.Request.Context(), userID, businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offerings": offerings})
}

func (s *Server) ListPublicOfferings(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	biz, err := s.businessSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	offerings, err := s.offeringSvc.ListActive(c.Request.Context(), biz.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offerings": offerings})
}
