package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает сущность пользователя платформы.
// Поля Rating, TotalReviews и IsVerified имеют смысл только для роли handyman.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Location     *string    `db:"location" json:"location,omitempty"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	Rating       float64    `db:"rating" json:"rating"`
	TotalReviews int        `db:"total_reviews" json:"total_reviews"`
	IsVerified   bool       `db:"is_verified" json:"is_verified"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsCustomer сообщает, является ли пользователь заказчиком.
func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }

// IsHandyman сообщает, является ли пользователь мастером.
func (u *User) IsHandyman() bool { return u.Role == RoleHandyman }

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HandymanSearchResult — строка публичной выдачи поиска мастеров.
type HandymanSearchResult struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Location     *string   `db:"location" json:"location,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	Rating       float64   `db:"rating" json:"rating"`
	TotalReviews int       `db:"total_reviews" json:"total_reviews"`
	IsVerified   bool      `db:"is_verified" json:"is_verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
