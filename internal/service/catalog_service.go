package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
	"github.com/ignatzorin/handyman-backend/internal/repository"
)

// CatalogUserStore — доступ к публичным данным мастеров.
type CatalogUserStore interface {
	GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SearchHandymen(ctx context.Context, params repository.HandymanSearchParams) ([]models.HandymanSearchResult, error)
}

// CatalogSkillStore — доступ к каталогу услуг и услугам мастера.
type CatalogSkillStore interface {
	ListActive(ctx context.Context) ([]models.Skill, error)
	ListByHandyman(ctx context.Context, handymanID uuid.UUID) ([]models.HandymanSkillDetail, error)
}

// CatalogReviewStore — публичные отзывы для страницы мастера.
type CatalogReviewStore interface {
	ListByHandyman(ctx context.Context, handymanID uuid.UUID, onlyPublic bool, limit, offset int) ([]models.Review, error)
}

// CatalogService отвечает за публичную витрину: каталог услуг и поиск мастеров.
type CatalogService struct {
	users   CatalogUserStore
	skills  CatalogSkillStore
	reviews CatalogReviewStore
}

// NewCatalogService создаёт сервис витрины.
func NewCatalogService(users CatalogUserStore, skills CatalogSkillStore, reviews CatalogReviewStore) *CatalogService {
	return &CatalogService{users: users, skills: skills, reviews: reviews}
}

// ListSkills возвращает активные услуги каталога.
func (s *CatalogService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.skills.ListActive(ctx)
}

// SearchHandymen возвращает мастеров по фильтрам услуги, локации и рейтинга.
func (s *CatalogService) SearchHandymen(ctx context.Context, params repository.HandymanSearchParams) ([]models.HandymanSearchResult, error) {
	params.Limit, params.Offset = normalizePaging(params.Limit, params.Offset)
	return s.users.SearchHandymen(ctx, params)
}

// HandymanProfile — публичная страница мастера.
type HandymanProfile struct {
	Handyman *models.User                 `json:"handyman"`
	Skills   []models.HandymanSkillDetail `json:"skills"`
	Reviews  []models.Review              `json:"reviews"`
}

// GetHandymanProfile возвращает мастера с его услугами и публичными отзывами.
func (s *CatalogService) GetHandymanProfile(ctx context.Context, handymanID uuid.UUID) (*HandymanProfile, error) {
	handyman, err := s.users.GetHandymanByID(ctx, handymanID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrHandymanNotFound
		}
		return nil, err
	}

	skills, err := s.skills.ListByHandyman(ctx, handymanID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByHandyman(ctx, handymanID, true, 20, 0)
	if err != nil {
		return nil, err
	}

	return &HandymanProfile{
		Handyman: handyman,
		Skills:   skills,
		Reviews:  reviews,
	}, nil
}
