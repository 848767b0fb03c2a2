package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"github.com/slotbook/slotbook/pkg/db/pagination"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
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

	if err := s.authzSvc.Require(c.Request.Context(), userID, businessID, policydomain.FeatureAnalytics, policydomain.AccessRead); err != nil {
		AbortWithError(c, err)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := auditdomain.ListAuditLogRequest{
		Pagination: page,
		BusinessID: businessID,
		Action:     strings.TrimSpace(c.Query("action")),
		TargetType: strings.TrimSpace(c.Query("target_type")),
		TargetID:   strings.TrimSpace(c.Query("target_id")),
	}

	if raw := strings.TrimSpace(c.Query("start_at")); raw != "" {
		startAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.StartAt = &startAt
	}
	if raw := strings.TrimSpace(c.Query("end_at")); raw != "" {
		endAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.EndAt = &endAt
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
