package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking описывает заявку заказчика на работу мастера.
// HourlyRate и TotalAmount фиксируются при создании и никогда не пересчитываются.
type Booking struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	BookingNumber  string     `db:"booking_number" json:"booking_number"`
	CustomerID     uuid.UUID  `db:"customer_id" json:"customer_id"`
	HandymanID     uuid.UUID  `db:"handyman_id" json:"handyman_id"`
	SkillID        uuid.UUID  `db:"skill_id" json:"skill_id"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Location       string     `db:"location" json:"location"`
	HourlyRate     float64    `db:"hourly_rate" json:"hourly_rate"`
	EstimatedHours int        `db:"estimated_hours" json:"estimated_hours"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	Status         string     `db:"status" json:"status"`
	ScheduledAt    *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	StartedAt      *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Review — единственный отзыв заказчика по завершённой заявке.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	BookingID  uuid.UUID `db:"booking_id" json:"booking_id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	HandymanID uuid.UUID `db:"handyman_id" json:"handyman_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	IsPublic   bool      `db:"is_public" json:"is_public"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Earning — финансовая запись, создаваемая ровно один раз при завершении заявки.
type Earning struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BookingID   uuid.UUID  `db:"booking_id" json:"booking_id"`
	HandymanID  uuid.UUID  `db:"handyman_id" json:"handyman_id"`
	Amount      float64    `db:"amount" json:"amount"`
	PlatformFee float64    `db:"platform_fee" json:"platform_fee"`
	NetAmount   float64    `db:"net_amount" json:"net_amount"`
	Status      string     `db:"status" json:"status"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
