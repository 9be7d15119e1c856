package services

import (
	"context"

	"github.com/billingapp/billing_backend/internal/core/domain"
	"github.com/billingapp/billing_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice by its identity.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// InvoiceWriterSvc defines lifecycle operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice creates a new draft invoice in the requested currency.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, error)

	// AddInvoiceLine appends a line to a draft invoice.
	AddInvoiceLine(ctx context.Context, invoiceID string, req dto.AddInvoiceLineRequest) (*domain.Invoice, error)

	// SetInvoiceDiscount sets or replaces the fixed-amount discount of a draft invoice.
	SetInvoiceDiscount(ctx context.Context, invoiceID string, req dto.SetAmountRequest) (*domain.Invoice, error)

	// SetInvoiceTax sets or replaces the fixed-amount tax of a draft invoice.
	SetInvoiceTax(ctx context.Context, invoiceID string, req dto.SetAmountRequest) (*domain.Invoice, error)

	// IssueInvoice transitions a draft invoice with at least one line to issued.
	IssueInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// VoidInvoice voids a draft or issued invoice, idempotently per key.
	VoidInvoice(ctx context.Context, invoiceID string, req dto.IdempotentOperationRequest) (*domain.Invoice, error)

	// MarkInvoicePaid marks an issued invoice as paid, idempotently per key.
	MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.IdempotentOperationRequest) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
