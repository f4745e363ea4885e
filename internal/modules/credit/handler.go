package credit

import (
	"net/http"

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
	rg.GET("/credits", h.ListCredits)
	rg.GET("/credits/balance", h.Balance)
}

func (h *Handler) ListCredits(c *gin.Context) {
	credits, err := h.service.ListCredits(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list credits")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"credits": credits})
}

func (h *Handler) Balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load balance")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}
