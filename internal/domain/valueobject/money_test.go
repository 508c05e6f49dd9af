package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 71.0, Round2(35.5*2))
	assert.Equal(t, 0.35, Round2(0.345))
	assert.Equal(t, 100.0, Round2(99.999))
	assert.Equal(t, 0.0, Round2(0))
}

func TestSplitPlatformFee(t *testing.T) {
	b, err := SplitPlatformFee(200, 0.10)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, b.Amount)
	assert.Equal(t, 20.0, b.PlatformFee)
	assert.Equal(t, 180.0, b.NetAmount)
}

func TestSplitPlatformFee_Rounding(t *testing.T) {
	// 0.10 от 33.33 — 3.333, комиссия округляется, выплата — остаток.
	b, err := SplitPlatformFee(33.33, 0.10)
	assert.NoError(t, err)
	assert.Equal(t, 3.33, b.PlatformFee)
	assert.Equal(t, 30.0, b.NetAmount)
	assert.Equal(t, b.Amount, Round2(b.PlatformFee+b.NetAmount))
}

func TestSplitPlatformFee_ZeroRate(t *testing.T) {
	b, err := SplitPlatformFee(150, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, b.PlatformFee)
	assert.Equal(t, 150.0, b.NetAmount)
}

func TestSplitPlatformFee_Invalid(t *testing.T) {
	_, err := SplitPlatformFee(-1, 0.10)
	assert.Error(t, err)

	_, err = SplitPlatformFee(100, 1)
	assert.Error(t, err)

	_, err = SplitPlatformFee(100, -0.1)
	assert.Error(t, err)
}
