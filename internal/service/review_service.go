package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/domain/valueobject"
	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/validation"
)

// ReviewStore описывает взаимодействие сервиса с хранилищем отзывов.
type ReviewStore interface {
	CreateAndRecalcRating(ctx context.Context, review *models.Review) (float64, int, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ListByHandyman(ctx context.Context, handymanID uuid.UUID, onlyPublic bool, limit, offset int) ([]models.Review, error)
}

// BookingStoreForReview — минимальный контракт для проверки заявки.
type BookingStoreForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// ReviewService содержит бизнес-логику отзывов и пересчёта рейтинга мастера.
type ReviewService struct {
	reviews  ReviewStore
	bookings BookingStoreForReview
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(reviews ReviewStore, bookings BookingStoreForReview) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings}
}

// CreateReviewInput описывает входные данные отзыва.
type CreateReviewInput struct {
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Comment    *string
	IsPublic   bool
}

// CreateReviewResult возвращает отзыв и пересчитанный рейтинг мастера.
type CreateReviewResult struct {
	Review       *models.Review
	Rating       float64
	TotalReviews int
}

// CreateReview сохраняет отзыв по завершённой заявке и пересчитывает рейтинг
// мастера по всем его отзывам в одной транзакции.
// Порядок проверок фиксирован: существование заявки, владелец, статус,
// повторный отзыв, значение рейтинга.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*CreateReviewResult, error) {
	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, err
	}

	if booking.CustomerID != in.CustomerID {
		return nil, apperror.ErrForbidden
	}

	if booking.Status != models.BookingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв можно оставить только по завершённой заявке")
	}

	existing, err := s.reviews.GetByBookingID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "отзыв по этой заявке уже оставлен")
	}

	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Comment != nil {
		if err := validation.ValidateLength("комментарий", *in.Comment, 0, validation.MaxReviewCommentLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	review := &models.Review{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		HandymanID: booking.HandymanID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsPublic:   in.IsPublic,
	}

	rating, total, err := s.reviews.CreateAndRecalcRating(ctx, review)
	if err != nil {
		return nil, err
	}

	return &CreateReviewResult{
		Review: review,
		// Хранимый рейтинг округлён до двух знаков, ответ совпадает с ним.
		Rating:       valueobject.Round2(rating),
		TotalReviews: total,
	}, nil
}

// ListHandymanReviews возвращает публичные отзывы о мастере.
func (s *ReviewService) ListHandymanReviews(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Review, error) {
	limit, offset = normalizePaging(limit, offset)
	return s.reviews.ListByHandyman(ctx, handymanID, true, limit, offset)
}

// GetBookingReview возвращает отзыв по заявке; nil — если отзыва ещё нет.
func (s *ReviewService) GetBookingReview(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Review, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && booking.CustomerID != actor.ID && booking.HandymanID != actor.ID {
		return nil, apperror.ErrForbidden
	}

	return s.reviews.GetByBookingID(ctx, bookingID)
}
