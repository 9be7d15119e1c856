package dto

import (
	"time"

	"github.com/billingapp/billing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the data needed to create a new invoice.
// The invoice ID is optional; a random UUID is assigned when omitted.
type CreateInvoiceRequest struct {
	InvoiceID    string `json:"invoiceID" binding:"omitempty,uuid"`
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3,currencycode"`
}

// AddInvoiceLineRequest defines the data needed to add a line to an invoice.
// The unit price is denominated in the invoice's currency.
type AddInvoiceLineRequest struct {
	Description string          `json:"description" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// SetAmountRequest carries a fixed monetary amount, used for both the
// discount and tax endpoints. The amount is denominated in the invoice's
// currency.
type SetAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// IdempotentOperationRequest carries the caller-supplied idempotency key for
// the void and mark-paid transitions. The key is an opaque token: it is only
// ever compared for equality, never parsed.
type IdempotentOperationRequest struct {
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// InvoiceLineResponse defines the data returned for a single invoice line.
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceResponse defines the data returned for an invoice, including the
// derived subtotal and total.
type InvoiceResponse struct {
	InvoiceID    string                `json:"invoiceID"`
	CurrencyCode string                `json:"currencyCode"`
	Status       string                `json:"status"`
	Lines        []InvoiceLineResponse `json:"lines"`
	Discount     *decimal.Decimal      `json:"discount,omitempty"`
	Tax          *decimal.Decimal      `json:"tax,omitempty"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Total        decimal.Decimal       `json:"total"`
	IssuedAt     *time.Time            `json:"issuedAt,omitempty"`
	PaidAt       *time.Time            `json:"paidAt,omitempty"`
	VoidedAt     *time.Time            `json:"voidedAt,omitempty"`
}

// ToInvoiceLineResponse converts a domain.InvoiceLine to its DTO.
func ToInvoiceLineResponse(line domain.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		Description: line.Description(),
		UnitPrice:   line.UnitPrice().Amount(),
		Quantity:    line.Quantity(),
		LineTotal:   line.LineTotal().Amount(),
	}
}

// ToInvoiceResponse converts a domain.Invoice to its DTO. Computing the total
// fails with apperrors.ErrNegativeMoney when it would be negative, in which
// case no response is produced.
func ToInvoiceResponse(invoice *domain.Invoice) (InvoiceResponse, error) {
	total, err := invoice.Total()
	if err != nil {
		return InvoiceResponse{}, err
	}

	lines := invoice.Lines()
	lineResponses := make([]InvoiceLineResponse, len(lines))
	for i, line := range lines {
		lineResponses[i] = ToInvoiceLineResponse(line)
	}

	resp := InvoiceResponse{
		InvoiceID:    invoice.InvoiceID(),
		CurrencyCode: invoice.Currency().Code,
		Status:       string(invoice.Status()),
		Lines:        lineResponses,
		Subtotal:     invoice.Subtotal().Amount(),
		Total:        total.Amount(),
		IssuedAt:     invoice.IssuedAt(),
		PaidAt:       invoice.PaidAt(),
		VoidedAt:     invoice.VoidedAt(),
	}
	if d := invoice.Discount(); d != nil {
		amount := d.Amount().Amount()
		resp.Discount = &amount
	}
	if tx := invoice.Tax(); tx != nil {
		amount := tx.Amount().Amount()
		resp.Tax = &amount
	}
	return resp, nil
}
