package domain

import (
	"fmt"
	"strings"

	"github.com/billingapp/billing_backend/internal/apperrors"
)

// Currency represents a supported currency in the domain. The exponent is the
// number of minor-unit decimal places (2 for EUR cents, 0 for JPY).
type Currency struct {
	Code     string `json:"currencyCode"` // ISO 4217 code (e.g., "EUR")
	Exponent int32  `json:"exponent"`
}

// Supported currencies. The registry is closed: codes outside this set are
// rejected at the boundary before any invoice is constructed.
var (
	RUB = Currency{Code: "RUB", Exponent: 2}
	EUR = Currency{Code: "EUR", Exponent: 2}
	USD = Currency{Code: "USD", Exponent: 2}
	JPY = Currency{Code: "JPY", Exponent: 0}
)

var currencyRegistry = map[string]Currency{
	RUB.Code: RUB,
	EUR.Code: EUR,
	USD.Code: USD,
	JPY.Code: JPY,
}

// CurrencyFromCode resolves a currency code through the registry.
// Unknown codes fail with ErrCurrencyMismatch.
func CurrencyFromCode(code string) (Currency, error) {
	currency, ok := currencyRegistry[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrCurrencyMismatch, code)
	}
	return currency, nil
}

// IsSupportedCurrency reports whether a code resolves through the registry.
func IsSupportedCurrency(code string) bool {
	_, err := CurrencyFromCode(code)
	return err == nil
}

// ListCurrencies returns all registered currencies, ordered by code.
func ListCurrencies() []Currency {
	return []Currency{EUR, JPY, RUB, USD}
}

func (c Currency) String() string {
	return c.Code
}
