package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MaxLineDescriptionLength is the maximum length of a line description,
// counted in runes after trimming surrounding whitespace.
const MaxLineDescriptionLength = 60

// InvoiceLine is an immutable billable position on an invoice: a description,
// a unit price and a positive (possibly fractional) quantity.
type InvoiceLine struct {
	description string
	unitPrice   Money
	quantity    decimal.Decimal
}

// NewInvoiceLine validates and creates an invoice line. The description must
// be non-blank and at most MaxLineDescriptionLength characters after
// trimming; the quantity must be strictly positive.
func NewInvoiceLine(description string, unitPrice Money, quantity decimal.Decimal) (InvoiceLine, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return InvoiceLine{}, fmt.Errorf("%w: description must not be blank", apperrors.ErrInvalidInvoiceLine)
	}
	if utf8.RuneCountInString(trimmed) > MaxLineDescriptionLength {
		return InvoiceLine{}, fmt.Errorf("%w: description must not exceed %d characters", apperrors.ErrInvalidInvoiceLine, MaxLineDescriptionLength)
	}
	if !quantity.IsPositive() {
		return InvoiceLine{}, fmt.Errorf("%w: quantity must be positive, got %s", apperrors.ErrInvalidQuantity, quantity)
	}
	return InvoiceLine{
		description: trimmed,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

// Description returns the trimmed line description.
func (l InvoiceLine) Description() string {
	return l.description
}

// UnitPrice returns the price of a single unit.
func (l InvoiceLine) UnitPrice() Money {
	return l.unitPrice
}

// Quantity returns the billed quantity. May be fractional (e.g. weights).
func (l InvoiceLine) Quantity() decimal.Decimal {
	return l.quantity
}

// LineTotal is unit price times quantity, recomputed on every call so it
// always reflects the line's current values.
func (l InvoiceLine) LineTotal() Money {
	return l.unitPrice.Mul(l.quantity)
}

func (l InvoiceLine) String() string {
	return fmt.Sprintf("%s: %s * %s = %s", l.description, l.quantity, l.unitPrice, l.LineTotal())
}
