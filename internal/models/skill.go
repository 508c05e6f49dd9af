package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill описывает услугу каталога с базовой почасовой ставкой.
type Skill struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Icon        *string   `db:"icon" json:"icon,omitempty"`
	BaseRate    float64   `db:"base_rate" json:"base_rate"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HandymanSkill — связь мастера с услугой: уровень сертификации,
// персональная ставка (если задана) и опыт.
type HandymanSkill struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	HandymanID         uuid.UUID `db:"handyman_id" json:"handyman_id"`
	SkillID            uuid.UUID `db:"skill_id" json:"skill_id"`
	CertificationLevel string    `db:"certification_level" json:"certification_level"`
	CertificationNotes *string   `db:"certification_notes" json:"certification_notes,omitempty"`
	HourlyRate         *float64  `db:"hourly_rate" json:"hourly_rate,omitempty"`
	YearsExperience    int       `db:"years_experience" json:"years_experience"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveRate возвращает действующую ставку мастера для услуги:
// персональную, либо базовую ставку услуги.
func (hs *HandymanSkill) EffectiveRate(skill *Skill) float64 {
	if hs != nil && hs.HourlyRate != nil {
		return *hs.HourlyRate
	}
	return skill.BaseRate
}

// HandymanSkillDetail — связь, дополненная данными услуги для выдачи профиля.
type HandymanSkillDetail struct {
	HandymanSkill
	SkillName     string  `db:"skill_name" json:"skill_name"`
	SkillBaseRate float64 `db:"skill_base_rate" json:"skill_base_rate"`
}

// SkillWithHandymenCount — строка админской выдачи каталога.
type SkillWithHandymenCount struct {
	Skill
	HandymenCount int `db:"handymen_count" json:"handymen_count"`
}
