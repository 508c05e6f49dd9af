package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/repository/common"
)

// Ошибки уровня репозитория.
var (
	ErrSkillNotFound         = errors.New("skill not found")
	ErrHandymanSkillNotFound = errors.New("handyman skill not found")
)

// SkillRepository отвечает за таблицы skills и handyman_skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository создаёт экземпляр репозитория.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// GetByID возвращает услугу по идентификатору.
func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return common.GetByID[models.Skill](ctx, r.db, "skills", id, ErrSkillNotFound)
}

// ListActive возвращает активные услуги каталога.
func (r *SkillRepository) ListActive(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.SelectContext(ctx, &skills, `
		SELECT id, name, description, icon, base_rate, is_active, created_at, updated_at
		FROM skills WHERE is_active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("skill repository: list active %w", err)
	}
	return skills, nil
}

// ListWithHandymenCount возвращает все услуги с числом мастеров (админка).
func (r *SkillRepository) ListWithHandymenCount(ctx context.Context, limit, offset int) ([]models.SkillWithHandymenCount, error) {
	var skills []models.SkillWithHandymenCount
	err := r.db.SelectContext(ctx, &skills, `
		SELECT s.id, s.name, s.description, s.icon, s.base_rate, s.is_active, s.created_at, s.updated_at,
		       COUNT(hs.id) AS handymen_count
		FROM skills s
		LEFT JOIN handyman_skills hs ON hs.skill_id = s.id
		GROUP BY s.id
		ORDER BY s.name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("skill repository: list with handymen count %w", err)
	}
	return skills, nil
}

// UpdateBaseRate меняет базовую ставку услуги.
// Существующие персональные ставки и заявки не трогаются.
func (r *SkillRepository) UpdateBaseRate(ctx context.Context, skillID uuid.UUID, baseRate float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE skills SET base_rate = $2, updated_at = NOW() WHERE id = $1
	`, skillID, baseRate)
	if err != nil {
		return fmt.Errorf("skill repository: update base rate %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSkillNotFound
	}
	return nil
}

// GetHandymanSkill возвращает связь мастер-услуга или (nil, nil), если связи нет.
func (r *SkillRepository) GetHandymanSkill(ctx context.Context, handymanID, skillID uuid.UUID) (*models.HandymanSkill, error) {
	var hs models.HandymanSkill
	err := r.db.GetContext(ctx, &hs, `
		SELECT id, handyman_id, skill_id, certification_level, certification_notes, hourly_rate, years_experience, created_at, updated_at
		FROM handyman_skills
		WHERE handyman_id = $1 AND skill_id = $2
	`, handymanID, skillID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("skill repository: get handyman skill %w", err)
	}
	return &hs, nil
}

// ListByHandyman возвращает услуги мастера с данными каталога.
func (r *SkillRepository) ListByHandyman(ctx context.Context, handymanID uuid.UUID) ([]models.HandymanSkillDetail, error) {
	var details []models.HandymanSkillDetail
	err := r.db.SelectContext(ctx, &details, `
		SELECT hs.id, hs.handyman_id, hs.skill_id, hs.certification_level, hs.certification_notes,
		       hs.hourly_rate, hs.years_experience, hs.created_at, hs.updated_at,
		       s.name AS skill_name, s.base_rate AS skill_base_rate
		FROM handyman_skills hs
		JOIN skills s ON s.id = hs.skill_id
		WHERE hs.handyman_id = $1
		ORDER BY s.name
	`, handymanID)
	if err != nil {
		return nil, fmt.Errorf("skill repository: list by handyman %w", err)
	}
	return details, nil
}

// SetCertificationLevel меняет уровень сертификации мастера по услуге.
func (r *SkillRepository) SetCertificationLevel(ctx context.Context, handymanID, skillID uuid.UUID, level string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE handyman_skills SET certification_level = $3, updated_at = NOW()
		WHERE handyman_id = $1 AND skill_id = $2
	`, handymanID, skillID, level)
	if err != nil {
		return fmt.Errorf("skill repository: set certification level %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrHandymanSkillNotFound
	}
	return nil
}
