package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/domain/valueobject"
	"github.com/ignatzorin/handyman-backend/internal/logger"
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/validation"
)

// bookingNumberAttempts — число попыток подобрать свободный номер заявки.
const bookingNumberAttempts = 10

// BookingStore описывает взаимодействие сервиса с хранилищем заявок.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	BookingNumberExists(ctx context.Context, number string) (bool, error)
	UpdateStatus(ctx context.Context, booking *models.Booking) error
	CompleteWithEarning(ctx context.Context, booking *models.Booking, earning *models.Earning) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Booking, error)
	ListByHandyman(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Booking, error)
}

// UserStoreForBooking — минимальный контракт для проверки участников заявки.
type UserStoreForBooking interface {
	GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SkillStoreForBooking — доступ к услугам и сертификациям мастера.
type SkillStoreForBooking interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	GetHandymanSkill(ctx context.Context, handymanID, skillID uuid.UUID) (*models.HandymanSkill, error)
}

// EarningStoreForBooking — проверка существующих выплат при завершении.
type EarningStoreForBooking interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Earning, error)
}

// BookingService содержит бизнес-логику жизненного цикла заявок.
type BookingService struct {
	bookings        BookingStore
	users           UserStoreForBooking
	skills          SkillStoreForBooking
	earnings        EarningStoreForBooking
	platformFeeRate float64
	now             func() time.Time
}

// NewBookingService создаёт сервис заявок.
func NewBookingService(bookings BookingStore, users UserStoreForBooking, skills SkillStoreForBooking, earnings EarningStoreForBooking, platformFeeRate float64) *BookingService {
	return &BookingService{
		bookings:        bookings,
		users:           users,
		skills:          skills,
		earnings:        earnings,
		platformFeeRate: platformFeeRate,
		now:             time.Now,
	}
}

// CreateBookingInput описывает входные данные новой заявки.
type CreateBookingInput struct {
	CustomerID     uuid.UUID
	HandymanID     uuid.UUID
	SkillID        uuid.UUID
	Title          string
	Description    string
	Location       string
	EstimatedHours int
	ScheduledAt    *time.Time
	Notes          *string
}

// CreateBooking создаёт заявку: проверяет мастера и услугу,
// фиксирует ставку и итоговую сумму на момент создания.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := s.validateCreateInput(in); err != nil {
		return nil, err
	}

	handyman, err := s.users.GetHandymanByID(ctx, in.HandymanID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrHandymanNotFound
		}
		return nil, err
	}

	skill, err := s.skills.GetByID(ctx, in.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return nil, apperror.ErrSkillNotFound
		}
		return nil, err
	}

	handymanSkill, err := s.skills.GetHandymanSkill(ctx, handyman.ID, skill.ID)
	if err != nil {
		return nil, err
	}

	// Ставка мастера имеет приоритет над базовой ставкой услуги.
	// Без сертификации (и без собственной ставки) действует базовая ставка.
	hourlyRate := handymanSkill.EffectiveRate(skill)
	totalAmount := valueobject.Round2(hourlyRate * float64(in.EstimatedHours))

	number, err := s.generateBookingNumber(ctx)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingNumber:  number,
		CustomerID:     in.CustomerID,
		HandymanID:     handyman.ID,
		SkillID:        skill.ID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Location:       strings.TrimSpace(in.Location),
		HourlyRate:     hourlyRate,
		EstimatedHours: in.EstimatedHours,
		TotalAmount:    totalAmount,
		Status:         models.BookingStatusPending,
		ScheduledAt:    in.ScheduledAt,
		Notes:          in.Notes,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"booking_id":     booking.ID,
			"booking_number": booking.BookingNumber,
			"total_amount":   booking.TotalAmount,
		}).Info("booking service: заявка создана")
	}

	return booking, nil
}

// GetBooking возвращает заявку, доступную только её участникам и администратору.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, err
	}

	if !s.canViewBooking(booking, actor) {
		return nil, apperror.ErrForbidden
	}

	return booking, nil
}

// ListMyBookings возвращает заявки пользователя в его роли.
// Администратору показываем заявки, где он выступает заказчиком.
func (s *BookingService) ListMyBookings(ctx context.Context, actor *models.User, limit, offset int) ([]models.Booking, error) {
	limit, offset = normalizePaging(limit, offset)

	if actor.IsHandyman() {
		return s.bookings.ListByHandyman(ctx, actor.ID, limit, offset)
	}
	return s.bookings.ListByCustomer(ctx, actor.ID, limit, offset)
}

// UpdateStatus выполняет переход статуса заявки.
// Недопустимый по таблице переходов запрос не считается ошибкой: заявка
// возвращается без изменений. Некорректное значение статуса — ошибка валидации.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, actor *models.User, rawStatus string) (*models.Booking, error) {
	next, err := valueobject.NewBookingStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if !next.IsSettable() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, err
	}

	role, ok := s.actorRole(booking, actor)
	if !ok {
		return nil, apperror.ErrForbidden
	}

	current := valueobject.BookingStatus(booking.Status)
	if !valueobject.TransitionAllowed(role, current, next) {
		// Повторное завершение и переходы назад молча игнорируются.
		return booking, nil
	}

	switch next {
	case valueobject.BookingStatusInProgress:
		now := s.now()
		booking.Status = string(next)
		booking.StartedAt = &now
		if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
			return nil, err
		}
	case valueobject.BookingStatusCompleted:
		if err := s.completeBooking(ctx, booking); err != nil {
			return nil, err
		}
	default:
		booking.Status = string(next)
		if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
			return nil, err
		}
	}

	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"booking_id": booking.ID,
			"status":     booking.Status,
		}).Info("booking service: статус заявки обновлён")
	}

	return booking, nil
}

// completeBooking завершает заявку и атомарно создаёт запись выплаты.
// Выплата по заявке существует не более одной: при повторном завершении
// (например после ручной правки статуса в базе) новая запись не создаётся.
func (s *BookingService) completeBooking(ctx context.Context, booking *models.Booking) error {
	now := s.now()
	booking.Status = models.BookingStatusCompleted
	booking.CompletedAt = &now

	existing, err := s.earnings.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.bookings.UpdateStatus(ctx, booking)
	}

	breakdown, err := valueobject.SplitPlatformFee(booking.TotalAmount, s.platformFeeRate)
	if err != nil {
		return err
	}

	earning := &models.Earning{
		BookingID:   booking.ID,
		HandymanID:  booking.HandymanID,
		Amount:      breakdown.Amount,
		PlatformFee: breakdown.PlatformFee,
		NetAmount:   breakdown.NetAmount,
		Status:      models.EarningStatusPending,
	}

	return s.bookings.CompleteWithEarning(ctx, booking, earning)
}

// canViewBooking проверяет доступ к заявке.
func (s *BookingService) canViewBooking(booking *models.Booking, actor *models.User) bool {
	if actor.IsAdmin() {
		return true
	}
	return booking.CustomerID == actor.ID || booking.HandymanID == actor.ID
}

// actorRole определяет роль пользователя по отношению к заявке.
func (s *BookingService) actorRole(booking *models.Booking, actor *models.User) (valueobject.Actor, bool) {
	switch {
	case booking.HandymanID == actor.ID && actor.IsHandyman():
		return valueobject.ActorHandyman, true
	case booking.CustomerID == actor.ID:
		return valueobject.ActorCustomer, true
	}
	return "", false
}

// validateCreateInput проверяет поля новой заявки.
func (s *BookingService) validateCreateInput(in CreateBookingInput) error {
	if err := validation.ValidateRequired("заголовок", in.Title); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("заголовок", in.Title, 0, validation.MaxBookingTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateRequired("описание", in.Description); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, 0, validation.MaxBookingDescLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateRequired("адрес", in.Location); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("адрес", in.Location, 0, validation.MaxBookingLocationLen); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Notes != nil {
		if err := validation.ValidateLength("примечание", *in.Notes, 0, validation.MaxBookingNotesLength); err != nil {
			return apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateEstimatedHours(in.EstimatedHours); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateScheduledAt(in.ScheduledAt, s.now()); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// generateBookingNumber подбирает свободный номер вида BK-2026-0042.
func (s *BookingService) generateBookingNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	for i := 0; i < bookingNumberAttempts; i++ {
		number := fmt.Sprintf("BK-%d-%04d", year, rand.Intn(10000))
		exists, err := s.bookings.BookingNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("booking service: не удалось подобрать номер заявки")
}

// normalizePaging приводит limit и offset к безопасным значениям.
func normalizePaging(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
