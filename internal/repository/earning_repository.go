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

var ErrEarningNotFound = errors.New("earning not found")

// EarningRepository отвечает за чтение выплат.
// Запись выплаты происходит только внутри транзакции завершения заявки
// (BookingRepository.CompleteWithEarning), прямого Create здесь нет.
type EarningRepository struct {
	db *sqlx.DB
}

func NewEarningRepository(db *sqlx.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

// GetByID возвращает выплату по ID.
func (r *EarningRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Earning, error) {
	return common.GetByID[models.Earning](ctx, r.db, "earnings", id, ErrEarningNotFound)
}

// GetByBookingID возвращает выплату по заявке или (nil, nil), если её нет.
func (r *EarningRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Earning, error) {
	var earning models.Earning
	err := r.db.GetContext(ctx, &earning, `SELECT * FROM earnings WHERE booking_id = $1`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("earning repository: get by booking %w", err)
	}
	return &earning, nil
}

// ListByHandyman возвращает выплаты мастера, новые первыми.
func (r *EarningRepository) ListByHandyman(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Earning, error) {
	var earnings []models.Earning
	err := r.db.SelectContext(ctx, &earnings, `
		SELECT * FROM earnings WHERE handyman_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, handymanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("earning repository: list by handyman %w", err)
	}
	return earnings, nil
}

// SumNetByHandyman возвращает сумму выплат мастера.
func (r *EarningRepository) SumNetByHandyman(ctx context.Context, handymanID uuid.UUID) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.GetContext(ctx, &sum, `SELECT COALESCE(SUM(net_amount), 0) FROM earnings WHERE handyman_id = $1`, handymanID)
	if err != nil {
		return 0, fmt.Errorf("earning repository: sum net by handyman %w", err)
	}
	return sum.Float64, nil
}
