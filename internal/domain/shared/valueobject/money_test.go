package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_LineArithmetic(t *testing.T) {
	unit := NewMoneyTRY(decimal.RequireFromString("1299.99"))
	line := unit.Times(4)
	assert.Equal(t, "5199.96 TRY", line.String())

	total := ZeroTRY().Add(line).Add(NewMoneyTRY(decimal.NewFromInt(150)))
	assert.True(t, total.Equals(NewMoneyTRY(decimal.RequireFromString("5349.96"))))
	assert.True(t, total.IsPositive())
	assert.False(t, ZeroTRY().IsPositive())
}

func TestMoney_FormatTR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"four digit amount", "1299.99", "1.299,99 ₺"},
		{"below a thousand", "999.5", "999,50 ₺"},
		{"zero", "0", "0,00 ₺"},
		{"millions", "1234567.891", "1.234.567,89 ₺"},
		{"exact thousand", "1000", "1.000,00 ₺"},
		{"negative", "-2500.1", "-2.500,10 ₺"},
		{"negative rounding to zero", "-0.001", "0,00 ₺"},
		{"rounds half up", "10.005", "10,01 ₺"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyTRY(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, m.FormatTR())
		})
	}
}
