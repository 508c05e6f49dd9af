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

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateAndRecalcRating вставляет отзыв и пересчитывает агрегаты мастера
// в одной транзакции. Возвращает новый средний рейтинг и число отзывов.
// Средний считается по ВСЕМ отзывам мастера, включая непубличные.
func (r *ReviewRepository) CreateAndRecalcRating(ctx context.Context, review *models.Review) (float64, int, error) {
	var (
		avg   float64
		count int
	)

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (booking_id, customer_id, handyman_id, rating, comment, is_public)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`, review.BookingID, review.CustomerID, review.HandymanID, review.Rating, review.Comment, review.IsPublic,
		).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt); err != nil {
			return fmt.Errorf("review repository: insert %w", err)
		}

		var result struct {
			Avg   sql.NullFloat64 `db:"avg"`
			Count int             `db:"count"`
		}
		if err := tx.GetContext(ctx, &result, `
			SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
			FROM reviews WHERE handyman_id = $1
		`, review.HandymanID); err != nil {
			return fmt.Errorf("review repository: recalc rating %w", err)
		}

		avg = result.Avg.Float64
		count = result.Count

		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET rating = ROUND($2::numeric, 2), total_reviews = $3, updated_at = NOW()
			WHERE id = $1
		`, review.HandymanID, avg, count); err != nil {
			return fmt.Errorf("review repository: update handyman rating %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return avg, count, nil
}

// GetByBookingID возвращает отзыв по заявке или (nil, nil), если его нет.
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE booking_id = $1`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by booking %w", err)
	}
	return &review, nil
}

// GetByID возвращает отзыв по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return common.GetByID[models.Review](ctx, r.db, "reviews", id, ErrReviewNotFound)
}

// ListByHandyman возвращает отзывы о мастере, новые первыми.
// onlyPublic=true отфильтровывает скрытые отзывы для публичного профиля.
func (r *ReviewRepository) ListByHandyman(ctx context.Context, handymanID uuid.UUID, onlyPublic bool, limit, offset int) ([]models.Review, error) {
	query := `SELECT * FROM reviews WHERE handyman_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if onlyPublic {
		query = `SELECT * FROM reviews WHERE handyman_id = $1 AND is_public = TRUE ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, handymanID, limit, offset); err != nil {
		return nil, fmt.Errorf("review repository: list by handyman %w", err)
	}
	return reviews, nil
}
