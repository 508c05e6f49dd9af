package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/handyman-backend/internal/http/handlers/common"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

// EarningHandler предоставляет HTTP слой для выплат мастера.
type EarningHandler struct {
	earnings *service.EarningService
}

// NewEarningHandler создаёт хэндлер.
func NewEarningHandler(earnings *service.EarningService) *EarningHandler {
	return &EarningHandler{earnings: earnings}
}

// ListMy обрабатывает GET /earnings/my.
func (h *EarningHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, offset := common.GetPagination(c)

	summary, err := h.earnings.ListMyEarnings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
