package dto

import "github.com/billingapp/billing_backend/internal/core/domain"

// CurrencyResponse defines the data returned for a registry currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Exponent     int32  `json:"exponent"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(currency domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: currency.Code,
		Exponent:     currency.Exponent,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, currency := range currencies {
		res[i] = ToCurrencyResponse(currency)
	}
	return res
}
