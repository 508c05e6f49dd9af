package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/dto"
	"github.com/ignatzorin/handyman-backend/internal/http/handlers/common"
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

// BookingHandler предоставляет HTTP слой для заявок.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler создаёт хэндлер.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// actorFromContext собирает пользователя из клеймов токена.
// Для проверок доступа к заявке достаточно идентификатора и роли.
func actorFromContext(c *gin.Context) (*models.User, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return nil, err
	}
	role, err := currentUserRole(c)
	if err != nil {
		return nil, err
	}
	return &models.User{ID: userID, Role: role}, nil
}

// Create обрабатывает POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if !actor.IsCustomer() {
		c.JSON(http.StatusForbidden, gin.H{"error": "заявки создаёт заказчик"})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handymanID, err := uuid.Parse(req.HandymanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор мастера"})
		return
	}

	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор услуги"})
		return
	}

	scheduledAt, err := req.ParseScheduledAt()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат scheduled_at"})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		CustomerID:     actor.ID,
		HandymanID:     handymanID,
		SkillID:        skillID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EstimatedHours: req.EstimatedHours,
		ScheduledAt:    scheduledAt,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get обрабатывает GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), bookingID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListMy обрабатывает GET /bookings - заявки текущего пользователя в его роли.
func (h *BookingHandler) ListMy(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, offset := common.GetPagination(c)

	bookings, err := h.bookings.ListMyBookings(c.Request.Context(), actor, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(bookings, limit, offset))
}

// UpdateStatus обрабатывает PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, actor, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
