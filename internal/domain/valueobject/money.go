package valueobject

import (
	"math"

	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
)

// Round2 округляет сумму до двух знаков (точность валюты).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FeeBreakdown — разбивка суммы завершённой заявки на комиссию площадки
// и выплату мастеру.
type FeeBreakdown struct {
	Amount      float64
	PlatformFee float64
	NetAmount   float64
}

// SplitPlatformFee считает комиссию по ставке площадки.
// Сумма комиссии округляется до точности валюты, выплата — остаток,
// поэтому PlatformFee + NetAmount всегда равны Amount.
func SplitPlatformFee(amount, feeRate float64) (FeeBreakdown, error) {
	if amount < 0 {
		return FeeBreakdown{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if feeRate < 0 || feeRate >= 1 {
		return FeeBreakdown{}, apperror.New(apperror.ErrCodeValidation, "ставка комиссии должна быть в диапазоне [0, 1)")
	}

	fee := Round2(amount * feeRate)
	return FeeBreakdown{
		Amount:      amount,
		PlatformFee: fee,
		NetAmount:   Round2(amount - fee),
	}, nil
}
