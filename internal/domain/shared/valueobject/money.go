package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyTRY is the only currency the storefront sells in
const CurrencyTRY = "TRY"

const trySymbol = "₺"

// Money is an immutable Turkish lira amount kept to the kuruş on output
type Money struct {
	amount decimal.Decimal
}

// NewMoneyTRY wraps a lira amount
func NewMoneyTRY(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// ZeroTRY is 0 ₺
func ZeroTRY() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Times multiplies a unit price by a line quantity
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String is the machine form, "1299.99 TRY"
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + CurrencyTRY
}

// FormatTR is the storefront form: dot thousands, comma decimals, two
// decimals, then the lira sign. 1299.99 becomes "1.299,99 ₺".
func (m Money) FormatTR() string {
	return FormatDecimalTR(m.amount) + " " + trySymbol
}

// FormatDecimalTR renders d with Turkish separators, rounded half up to two decimals
func FormatDecimalTR(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	intPart, fracPart, _ := strings.Cut(strings.TrimPrefix(fixed, "-"), ".")

	var b strings.Builder
	// -0,00 is printed without a sign
	if negative && strings.Trim(intPart+fracPart, "0") != "" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
