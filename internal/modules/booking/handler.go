package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"resortdesk/internal/domain"
	"resortdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.PATCH("/bookings/:id/dates", h.ModifyDates)
}

func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/check-in", h.CheckIn)
	rg.POST("/bookings/:id/check-out", h.CheckOut)
	rg.POST("/bookings/:id/no-show", h.MarkNoShow)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ModifyDates(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req ModifyDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.ModifyBookingDates(c.Request.Context(), id, c.GetInt64("user_id"), req.CheckIn, req.CheckOut)
	if err != nil {
		h.writeError(c, err, "Failed to modify booking dates")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.staffTransition(c, h.service.CheckIn)
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.staffTransition(c, h.service.CheckOut)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.staffTransition(c, h.service.MarkNoShow)
}

func (h *Handler) staffTransition(c *gin.Context, op func(ctx context.Context, bookingID, staffID int64) (*domain.Booking, error)) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := op(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err, "Failed to update booking status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking input")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or resource not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You may not act on this booking")
	case errors.Is(err, ErrDatesUnavailable):
		response.Error(c, http.StatusConflict, "DATES_UNAVAILABLE", "The resource is not available for the selected dates")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", err.Error())
	case errors.As(err, &invalid):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", invalid.Error())
	case errors.Is(err, ErrDownstream):
		response.Error(c, http.StatusBadGateway, "DOWNSTREAM_FAILURE", "A payment provider error prevented the operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
