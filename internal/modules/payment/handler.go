package payment

import (
	"errors"
	"net/http"
	"strconv"

	"resortdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/by-booking/:id", h.GetByBooking)
}

// Webhook is the provider callback. The provider retries until it gets a
// 2xx, so transient failures answer 500 and signature problems answer 403.
func (h *Handler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loggerf("level=error msg=invalid webhook payload err=%v", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), req); err != nil {
		h.loggerf("level=error msg=webhook failed reference=%s event=%s err=%v", req.Reference, req.Event, err)
		switch {
		case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrAmountMismatch):
			c.String(http.StatusForbidden, "forbidden")
		case errors.Is(err, ErrUnknownEvent):
			c.String(http.StatusBadRequest, "bad request")
		default:
			c.String(http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.String(http.StatusOK, "OK")
}

func (h *Handler) GetByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	p, err := h.service.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}
