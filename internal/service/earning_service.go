package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/handyman-backend/internal/models"
)

// EarningStore описывает чтение выплат.
// Записи выплат создаются только при завершении заявки, поэтому
// сервису доступно лишь чтение.
type EarningStore interface {
	ListByHandyman(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Earning, error)
	SumNetByHandyman(ctx context.Context, handymanID uuid.UUID) (float64, error)
}

// EarningService отдаёт мастеру его выплаты и итоговую сумму.
type EarningService struct {
	earnings EarningStore
}

// NewEarningService создаёт сервис выплат.
func NewEarningService(earnings EarningStore) *EarningService {
	return &EarningService{earnings: earnings}
}

// EarningsSummary — список выплат мастера с итогом к получению.
type EarningsSummary struct {
	Earnings []models.Earning `json:"earnings"`
	TotalNet float64          `json:"total_net"`
}

// ListMyEarnings возвращает выплаты мастера и сумму к получению.
func (s *EarningService) ListMyEarnings(ctx context.Context, handymanID uuid.UUID, limit, offset int) (*EarningsSummary, error) {
	limit, offset = normalizePaging(limit, offset)

	earnings, err := s.earnings.ListByHandyman(ctx, handymanID, limit, offset)
	if err != nil {
		return nil, err
	}

	totalNet, err := s.earnings.SumNetByHandyman(ctx, handymanID)
	if err != nil {
		return nil, err
	}

	return &EarningsSummary{
		Earnings: earnings,
		TotalNet: totalNet,
	}, nil
}
