package domain

import (
	"fmt"
	"math"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency. The amount is always
// stored quantized to the currency's exponent, rounding half away from zero,
// so two Money values in the same currency are equal iff their stored amounts
// are exactly equal ("36" and "36.00" both quantize to the same value).
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a Money quantized to the currency's exponent.
// decimal.Decimal values are finite by construction, so there is no error
// path here; float64 entry points guard against NaN/Inf instead.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{
		amount:   amount.Round(currency.Exponent),
		currency: currency,
	}
}

// NewMoneyFromFloat creates a Money from a float64 amount.
// Non-finite amounts fail with ErrInvalidMoney.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("%w: amount must be finite, got %v", apperrors.ErrInvalidMoney, amount)
	}
	return NewMoney(decimal.NewFromFloat(amount), currency), nil
}

// ZeroMoney returns the zero amount of the given currency.
func ZeroMoney(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the stored, already quantized amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency the amount is denominated in.
func (m Money) Currency() Currency {
	return m.currency
}

// Add returns m + other. Fails with ErrCurrencyMismatch if currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m - other. Fails with ErrCurrencyMismatch if currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency), nil
}

// Mul returns m scaled by a decimal factor, re-quantized. Negative factors
// are permitted; callers that require non-negative results enforce that
// themselves.
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// MulFloat returns m scaled by a float64 factor.
// Non-finite factors fail with ErrInvalidMoney.
func (m Money) MulFloat(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Money{}, fmt.Errorf("%w: multiplier must be finite, got %v", apperrors.ErrInvalidMoney, factor)
	}
	return m.Mul(decimal.NewFromFloat(factor)), nil
}

// Equal reports whether both currency and quantized amount match exactly.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// MinorUnits encodes the amount as integer minor units
// (round(amount * 10^exponent)). Because the amount is stored quantized,
// the shift is exact and the encoding round-trips without drift.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(m.currency.Exponent).IntPart()
}

// MoneyFromMinorUnits decodes integer minor units back into a Money
// (minor / 10^exponent). Inverse of MinorUnits.
func MoneyFromMinorUnits(minor int64, currency Currency) Money {
	return NewMoney(decimal.New(minor, -currency.Exponent), currency)
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", apperrors.ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}
	return nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(m.currency.Exponent), m.currency.Code)
}
