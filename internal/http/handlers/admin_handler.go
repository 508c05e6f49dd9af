package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/dto"
	"github.com/ignatzorin/handyman-backend/internal/http/handlers/common"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

// AdminHandler предоставляет HTTP слой админских операций.
type AdminHandler struct {
	admin *service.AdminService
	cache *service.CacheService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(admin *service.AdminService, cache *service.CacheService) *AdminHandler {
	return &AdminHandler{admin: admin, cache: cache}
}

// ListUsers обрабатывает GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	users, err := h.admin.ListUsers(c.Request.Context(), repository.UserListParams{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(users, limit, offset))
}

// ListSkills обрабатывает GET /admin/skills.
func (h *AdminHandler) ListSkills(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	skills, err := h.admin.ListSkills(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(skills, limit, offset))
}

// UpdateSkillRate обрабатывает PATCH /admin/skills/:id/rate.
func (h *AdminHandler) UpdateSkillRate(c *gin.Context) {
	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateSkillRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skill, err := h.admin.UpdateSkillBaseRate(c.Request.Context(), skillID, *req.BaseRate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cache.InvalidateSkillsCache()
	c.JSON(http.StatusOK, skill)
}

// SetCertification обрабатывает PUT /admin/handymen/:id/certification.
func (h *AdminHandler) SetCertification(c *gin.Context) {
	handymanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.SetCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор услуги"})
		return
	}

	if err := h.admin.SetCertificationLevel(c.Request.Context(), handymanID, skillID, req.Level); err != nil {
		respondServiceError(c, err)
		return
	}

	h.cache.InvalidateHandymanCache(handymanID)
	c.JSON(http.StatusOK, gin.H{"message": "уровень сертификации обновлён"})
}

// SetVerified обрабатывает PUT /admin/handymen/:id/verify.
func (h *AdminHandler) SetVerified(c *gin.Context) {
	handymanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handyman, err := h.admin.SetHandymanVerified(c.Request.Context(), handymanID, req.IsVerified)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cache.InvalidateHandymanCache(handymanID)
	c.JSON(http.StatusOK, handyman)
}

// GetReport обрабатывает GET /admin/reports.
func (h *AdminHandler) GetReport(c *gin.Context) {
	months := common.ParseIntQuery(c, "months", 6)
	topLimit := common.ParseIntQuery(c, "top", 5)

	report, err := h.admin.GetPlatformReport(c.Request.Context(), months, topLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
