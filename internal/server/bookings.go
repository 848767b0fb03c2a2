package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/slotbook/slotbook/internal/booking/domain"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
)

func (s *Server) CreateBooking(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	biz, err := s.businessSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req bookingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	booking, err := s.bookingSvc.Create(c.Request.Context(), biz.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (s *Server) ListBookings(c *gin.Context) {
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

	bookings, err := s.bookingSvc.List(c.Request.Context(), userID, businessID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateBookingStatus(c *gin.Context) {
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
	bookingID, ok := idParam(c, "bookingId")
	if !ok {
		AbortWithError(c, bookingdomain.ErrBookingNotFound)
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	booking, err := s.bookingSvc.UpdateStatus(c.Request.Context(), userID, businessID, bookingID, bookingdomain.BookingStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
