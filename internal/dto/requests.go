package dto

import (
	"time"
)

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	HandymanID     string  `json:"handyman_id" binding:"required"`
	SkillID        string  `json:"skill_id" binding:"required"`
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Location       string  `json:"location" binding:"required"`
	EstimatedHours int     `json:"estimated_hours" binding:"required"`
	ScheduledAt    *string `json:"scheduled_at"`
	Notes          *string `json:"notes"`
}

// ParseScheduledAt converts string scheduled time to time.Time pointer
func (r *CreateBookingRequest) ParseScheduledAt() (*time.Time, error) {
	if r.ScheduledAt == nil || *r.ScheduledAt == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *r.ScheduledAt)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// UpdateBookingStatusRequest represents the request to change a booking status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateReviewRequest represents the request to leave a review
type CreateReviewRequest struct {
	Rating   int     `json:"rating" binding:"required"`
	Comment  *string `json:"comment"`
	IsPublic *bool   `json:"is_public"`
}

// UpdateSkillRateRequest represents the request to change a skill base rate.
// BaseRate is a pointer: zero is a valid rate, only absence is rejected.
type UpdateSkillRateRequest struct {
	BaseRate *float64 `json:"base_rate" binding:"required"`
}

// SetCertificationRequest represents the request to change a certification level
type SetCertificationRequest struct {
	SkillID string `json:"skill_id" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// SetVerifiedRequest represents the request to toggle handyman verification
type SetVerifiedRequest struct {
	IsVerified bool `json:"is_verified"`
}
