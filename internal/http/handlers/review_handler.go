package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/handyman-backend/internal/dto"
	"github.com/ignatzorin/handyman-backend/internal/http/handlers/common"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой для отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
	cache   *service.CacheService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService, cache *service.CacheService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, cache: cache}
}

// Create обрабатывает POST /bookings/:id/review.
func (h *ReviewHandler) Create(c *gin.Context) {
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

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	result, err := h.reviews.CreateReview(c.Request.Context(), service.CreateReviewInput{
		BookingID:  bookingID,
		CustomerID: actor.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsPublic:   isPublic,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Новый отзыв меняет рейтинг мастера, кэш его профиля устарел.
	h.cache.InvalidateHandymanCache(result.Review.HandymanID)

	c.JSON(http.StatusCreated, dto.NewReviewResponse(result))
}

// GetByBooking обрабатывает GET /bookings/:id/review.
func (h *ReviewHandler) GetByBooking(c *gin.Context) {
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

	review, err := h.reviews.GetBookingReview(c.Request.Context(), bookingID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "отзыв не найден"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListByHandyman обрабатывает GET /handymen/:id/reviews.
func (h *ReviewHandler) ListByHandyman(c *gin.Context) {
	handymanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListHandymanReviews(c.Request.Context(), handymanID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(reviews, limit, offset))
}
