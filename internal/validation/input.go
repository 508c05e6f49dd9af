package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength           = 2
	MaxNameLength           = 100
	MaxBookingTitleLength   = 255
	MaxBookingDescLength    = 2000
	MaxBookingLocationLen   = 500
	MaxBookingNotesLength   = 1000
	MinEstimatedHours       = 1
	MaxEstimatedHours       = 24
	MinRating               = 1
	MaxRating               = 5
	MaxReviewCommentLength  = 1000
	MinSkillBaseRate        = 0.0
	MaxSkillBaseRate        = 1000.0
	MaxLocationFilterLength = 100
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateRequired проверяет непустое значение.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s обязателен", fieldName)
	}
	return nil
}

// ValidateEstimatedHours проверяет оценку часов по заявке.
func ValidateEstimatedHours(hours int) error {
	if hours < MinEstimatedHours {
		return fmt.Errorf("минимальная оценка — %d час", MinEstimatedHours)
	}
	if hours > MaxEstimatedHours {
		return fmt.Errorf("максимальная оценка — %d часа", MaxEstimatedHours)
	}
	return nil
}

// ValidateScheduledAt проверяет, что запланированное время строго в будущем.
func ValidateScheduledAt(scheduledAt *time.Time, now time.Time) error {
	if scheduledAt == nil {
		return nil
	}
	if !scheduledAt.After(now) {
		return fmt.Errorf("запланированное время должно быть в будущем")
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("рейтинг должен быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateSkillBaseRate проверяет базовую ставку услуги.
func ValidateSkillBaseRate(rate float64) error {
	if rate < MinSkillBaseRate || rate > MaxSkillBaseRate {
		return fmt.Errorf("базовая ставка должна быть от %.0f до %.0f", MinSkillBaseRate, MaxSkillBaseRate)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	return nil
}
