package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToEUR(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		expected float64
	}{
		{"EUR passthrough", 1500, "EUR", 1500},
		{"GBP above parity", 1000, "GBP", 1160},
		{"PLN below parity", 1000, "PLN", 230},
		{"HUF tiny rate", 100000, "HUF", 250},
		{"unknown code falls back to 1.0", 999, "XXX", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToEUR(decimal.NewFromFloat(tt.amount), tt.code)
			assert.True(t, got.Equal(decimal.NewFromFloat(tt.expected)),
				"got %s, want %v", got, tt.expected)
		})
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("EUR"))
	assert.True(t, Known("CZK"))
	assert.False(t, Known("JPY"))
}

func TestToEURZeroAmount(t *testing.T) {
	assert.True(t, ToEUR(decimal.Zero, "GBP").IsZero())
}
