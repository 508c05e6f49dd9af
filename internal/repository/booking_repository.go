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

// ErrBookingNotFound возвращается, когда заявка не найдена.
var ErrBookingNotFound = errors.New("booking not found")

const bookingColumns = `id, booking_number, customer_id, handyman_id, skill_id, title, description, location,
	hourly_rate, estimated_hours, total_amount, status, scheduled_at, started_at, completed_at, notes,
	created_at, updated_at`

// BookingRepository отвечает за таблицу bookings и связанные с заявкой выплаты.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создаёт экземпляр репозитория.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет новую заявку.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (booking_number, customer_id, handyman_id, skill_id, title, description, location,
			hourly_rate, estimated_hours, total_amount, status, scheduled_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		booking.BookingNumber, booking.CustomerID, booking.HandymanID, booking.SkillID,
		booking.Title, booking.Description, booking.Location,
		booking.HourlyRate, booking.EstimatedHours, booking.TotalAmount,
		booking.Status, booking.ScheduledAt, booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("booking repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заявку по идентификатору.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking repository: get by id %w", err)
	}
	return &booking, nil
}

// BookingNumberExists проверяет занятость номера заявки.
func (r *BookingRepository) BookingNumberExists(ctx context.Context, number string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE booking_number = $1`, number); err != nil {
		return false, fmt.Errorf("booking repository: booking number exists %w", err)
	}
	return count > 0, nil
}

// UpdateStatus записывает статус и отметки времени заявки.
// TotalAmount и HourlyRate намеренно не входят в UPDATE: они зафиксированы при создании.
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, started_at = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1
	`, booking.ID, booking.Status, booking.StartedAt, booking.CompletedAt)
	if err != nil {
		return fmt.Errorf("booking repository: update status %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CompleteWithEarning записывает завершение заявки и создаёт выплату
// в одной транзакции. ON CONFLICT по booking_id гарантирует не более
// одной выплаты на заявку даже при гонке двух запросов.
func (r *BookingRepository) CompleteWithEarning(ctx context.Context, booking *models.Booking, earning *models.Earning) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE bookings
			SET status = $2, completed_at = $3, updated_at = NOW()
			WHERE id = $1
		`, booking.ID, booking.Status, booking.CompletedAt)
		if err != nil {
			return fmt.Errorf("booking repository: complete booking %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrBookingNotFound
		}

		row := tx.QueryRowxContext(ctx, `
			INSERT INTO earnings (booking_id, handyman_id, amount, platform_fee, net_amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (booking_id) DO NOTHING
			RETURNING id, created_at, updated_at
		`, earning.BookingID, earning.HandymanID, earning.Amount, earning.PlatformFee, earning.NetAmount, earning.Status)

		if err := row.Scan(&earning.ID, &earning.CreatedAt, &earning.UpdatedAt); err != nil {
			// Конфликт по booking_id: выплата уже существует, это не ошибка.
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("booking repository: insert earning %w", err)
		}
		return nil
	})
}

// ListByCustomer возвращает заявки заказчика, новые первыми.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &bookings, query, customerID, limit, offset); err != nil {
		return nil, fmt.Errorf("booking repository: list by customer %w", err)
	}
	return bookings, nil
}

// ListByHandyman возвращает заявки, назначенные мастеру, новые первыми.
func (r *BookingRepository) ListByHandyman(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE handyman_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &bookings, query, handymanID, limit, offset); err != nil {
		return nil, fmt.Errorf("booking repository: list by handyman %w", err)
	}
	return bookings, nil
}
