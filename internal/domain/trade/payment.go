package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the checkout payment method
type PaymentMethod string

const (
	PaymentMethodCard          PaymentMethod = "kredi_karti"
	PaymentMethodBankTransfer  PaymentMethod = "havale"
	PaymentMethodCashOnDeliver PaymentMethod = "kapida_odeme"
)

// PaymentStatus is the status reported by the payment provider
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentInfo is the payment snapshot stored with the order.
// Capture itself happens at the provider; the order only records the outcome.
type PaymentInfo struct {
	Method    PaymentMethod   `json:"method"`
	Status    PaymentStatus   `json:"status"`
	Reference string          `json:"reference,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCashOnDeliver:
		return true
	}
	return false
}

// Label returns the Turkish display label
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCard:
		return "Kredi Kartı"
	case PaymentMethodBankTransfer:
		return "Havale / EFT"
	case PaymentMethodCashOnDeliver:
		return "Kapıda Ödeme"
	}
	if m == "" {
		return "-"
	}
	return string(m)
}
