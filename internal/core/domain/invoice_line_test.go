package domain_test

import (
	"strings"
	"testing"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/billingapp/billing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceLine_Validation(t *testing.T) {
	price := domain.NewMoney(decimal.RequireFromString("1.29"), domain.EUR)

	tests := []struct {
		name        string
		description string
		quantity    string
		wantErr     error
	}{
		{name: "valid line", description: "Banana", quantity: "4", wantErr: nil},
		{name: "fractional quantity", description: "Flour (kg)", quantity: "0.75", wantErr: nil},
		{name: "description at max length", description: strings.Repeat("a", 60), quantity: "1", wantErr: nil},
		{name: "blank description", description: "", quantity: "1", wantErr: apperrors.ErrInvalidInvoiceLine},
		{name: "whitespace description", description: "   ", quantity: "1", wantErr: apperrors.ErrInvalidInvoiceLine},
		{name: "over-length description", description: strings.Repeat("a", 61), quantity: "1", wantErr: apperrors.ErrInvalidInvoiceLine},
		{name: "zero quantity", description: "Banana", quantity: "0", wantErr: apperrors.ErrInvalidQuantity},
		{name: "negative quantity", description: "Banana", quantity: "-1", wantErr: apperrors.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := domain.NewInvoiceLine(tt.description, price, decimal.RequireFromString(tt.quantity))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.description), line.Description())
		})
	}
}

func TestNewInvoiceLine_TrimsDescription(t *testing.T) {
	price := domain.NewMoney(decimal.RequireFromString("1.29"), domain.EUR)

	line, err := domain.NewInvoiceLine("  Banana  ", price, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "Banana", line.Description())

	// Padding must not push a valid description over the limit.
	padded := "  " + strings.Repeat("a", 60) + "  "
	_, err = domain.NewInvoiceLine(padded, price, decimal.NewFromInt(1))
	assert.NoError(t, err)
}

func TestInvoiceLine_LineTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity string
		currency domain.Currency
		want     string
	}{
		{name: "integer quantity", price: "1.29", quantity: "4", currency: domain.EUR, want: "5.16"},
		{name: "fractional quantity", price: "2.50", quantity: "0.5", currency: domain.USD, want: "1.25"},
		{name: "fractional result re-quantizes", price: "0.99", quantity: "0.333", currency: domain.EUR, want: "0.33"},
		{name: "zero decimal currency", price: "150", quantity: "3", currency: domain.JPY, want: "450"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := domain.NewMoney(decimal.RequireFromString(tt.price), tt.currency)
			line, err := domain.NewInvoiceLine("Item", price, decimal.RequireFromString(tt.quantity))
			require.NoError(t, err)

			want := domain.NewMoney(decimal.RequireFromString(tt.want), tt.currency)
			assert.True(t, line.LineTotal().Equal(want),
				"got %s, want %s", line.LineTotal(), want)
		})
	}
}
