package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/validation"
)

// AdminUserStore — административные операции над пользователями.
type AdminUserStore interface {
	GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	ListUsers(ctx context.Context, params repository.UserListParams) ([]models.User, error)
}

// AdminSkillStore — административные операции над услугами и сертификациями.
type AdminSkillStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	UpdateBaseRate(ctx context.Context, skillID uuid.UUID, baseRate float64) error
	SetCertificationLevel(ctx context.Context, handymanID, skillID uuid.UUID, level string) error
	ListWithHandymenCount(ctx context.Context, limit, offset int) ([]models.SkillWithHandymenCount, error)
}

// AdminReportStore — сводные отчёты платформы.
type AdminReportStore interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetMonthlyStats(ctx context.Context, months int) ([]repository.MonthlyStat, error)
	GetPopularSkills(ctx context.Context, limit int) ([]repository.PopularSkill, error)
	GetTopHandymen(ctx context.Context, limit int) ([]repository.TopHandyman, error)
}

// AdminService содержит бизнес-логику администрирования платформы.
type AdminService struct {
	users   AdminUserStore
	skills  AdminSkillStore
	reports AdminReportStore
}

// NewAdminService создаёт административный сервис.
func NewAdminService(users AdminUserStore, skills AdminSkillStore, reports AdminReportStore) *AdminService {
	return &AdminService{users: users, skills: skills, reports: reports}
}

// ListUsers возвращает пользователей с фильтром по роли и поиском.
func (s *AdminService) ListUsers(ctx context.Context, params repository.UserListParams) ([]models.User, error) {
	params.Limit, params.Offset = normalizePaging(params.Limit, params.Offset)
	return s.users.ListUsers(ctx, params)
}

// ListSkills возвращает услуги каталога с числом сертифицированных мастеров.
func (s *AdminService) ListSkills(ctx context.Context, limit, offset int) ([]models.SkillWithHandymenCount, error) {
	limit, offset = normalizePaging(limit, offset)
	return s.skills.ListWithHandymenCount(ctx, limit, offset)
}

// UpdateSkillBaseRate меняет базовую ставку услуги.
// Ставки уже созданных заявок зафиксированы и не пересчитываются.
func (s *AdminService) UpdateSkillBaseRate(ctx context.Context, skillID uuid.UUID, baseRate float64) (*models.Skill, error) {
	if err := validation.ValidateSkillBaseRate(baseRate); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if err := s.skills.UpdateBaseRate(ctx, skillID, baseRate); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return nil, apperror.ErrSkillNotFound
		}
		return nil, err
	}

	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	return skill, nil
}

// SetCertificationLevel меняет уровень сертификации мастера по услуге.
func (s *AdminService) SetCertificationLevel(ctx context.Context, handymanID, skillID uuid.UUID, level string) error {
	if _, ok := models.ValidCertificationLevels[level]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "некорректный уровень сертификации")
	}

	if _, err := s.users.GetHandymanByID(ctx, handymanID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrHandymanNotFound
		}
		return err
	}

	if err := s.skills.SetCertificationLevel(ctx, handymanID, skillID, level); err != nil {
		if errors.Is(err, repository.ErrHandymanSkillNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "мастер не сертифицирован по этой услуге")
		}
		return err
	}
	return nil
}

// SetHandymanVerified выставляет или снимает отметку проверенного мастера.
func (s *AdminService) SetHandymanVerified(ctx context.Context, handymanID uuid.UUID, verified bool) (*models.User, error) {
	if _, err := s.users.GetHandymanByID(ctx, handymanID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrHandymanNotFound
		}
		return nil, err
	}

	if err := s.users.SetVerified(ctx, handymanID, verified); err != nil {
		return nil, err
	}

	return s.users.GetHandymanByID(ctx, handymanID)
}

// PlatformReport — сводный отчёт для админской панели.
type PlatformReport struct {
	Dashboard     *repository.DashboardStats `json:"dashboard"`
	MonthlyStats  []repository.MonthlyStat   `json:"monthly_stats"`
	PopularSkills []repository.PopularSkill  `json:"popular_skills"`
	TopHandymen   []repository.TopHandyman   `json:"top_handymen"`
}

// GetPlatformReport собирает сводную статистику платформы.
func (s *AdminService) GetPlatformReport(ctx context.Context, months, topLimit int) (*PlatformReport, error) {
	if months <= 0 || months > 24 {
		months = 6
	}
	if topLimit <= 0 || topLimit > 50 {
		topLimit = 5
	}

	dashboard, err := s.reports.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	monthly, err := s.reports.GetMonthlyStats(ctx, months)
	if err != nil {
		return nil, err
	}

	popular, err := s.reports.GetPopularSkills(ctx, topLimit)
	if err != nil {
		return nil, err
	}

	top, err := s.reports.GetTopHandymen(ctx, topLimit)
	if err != nil {
		return nil, err
	}

	return &PlatformReport{
		Dashboard:     dashboard,
		MonthlyStats:  monthly,
		PopularSkills: popular,
		TopHandymen:   top,
	}, nil
}
