package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/http/handlers/common"
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

const (
	skillsCacheTTL  = 5 * time.Minute
	profileCacheTTL = time.Minute
)

// CatalogHandler предоставляет публичную витрину: услуги и поиск мастеров.
// Каталог услуг и профили мастеров кэшируются: это самые частые публичные
// запросы, а данные меняются редко.
type CatalogHandler struct {
	catalog *service.CatalogService
	cache   *service.CacheService
}

// NewCatalogHandler создаёт хэндлер.
func NewCatalogHandler(catalog *service.CatalogService, cache *service.CacheService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cache: cache}
}

// ListSkills обрабатывает GET /skills.
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	cacheKey := service.SkillsCacheKey()
	if cached, found := h.cache.Get(cacheKey); found {
		if skills, ok := cached.([]models.Skill); ok {
			c.JSON(http.StatusOK, skills)
			return
		}
	}

	skills, err := h.catalog.ListSkills(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cache.Set(cacheKey, skills, skillsCacheTTL)
	c.JSON(http.StatusOK, skills)
}

// SearchHandymen обрабатывает GET /handymen.
// Фильтры: skill_id, location (подстрока), min_rating, sort (rating|recent).
func (h *CatalogHandler) SearchHandymen(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	params := repository.HandymanSearchParams{
		Location: c.Query("location"),
		SortBy:   c.DefaultQuery("sort", "rating"),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := c.Query("skill_id"); raw != "" {
		skillID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор услуги"})
			return
		}
		params.SkillID = &skillID
	}

	params.MinRating = common.ParseFloatQuery(c, "min_rating")

	results, err := h.catalog.SearchHandymen(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetHandyman обрабатывает GET /handymen/:id - страница мастера.
func (h *CatalogHandler) GetHandyman(c *gin.Context) {
	handymanID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cacheKey := service.HandymanProfileCacheKey(handymanID)
	if cached, found := h.cache.Get(cacheKey); found {
		if profile, ok := cached.(*service.HandymanProfile); ok {
			c.JSON(http.StatusOK, profile)
			return
		}
	}

	profile, err := h.catalog.GetHandymanProfile(c.Request.Context(), handymanID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.cache.Set(cacheKey, profile, profileCacheTTL)
	c.JSON(http.StatusOK, profile)
}
