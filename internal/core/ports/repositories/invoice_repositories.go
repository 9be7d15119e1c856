package repositories

import (
	"context"

	"github.com/billingapp/billing_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a fully rehydrated invoice by its identity.
	// Returns apperrors.ErrNotFound for unknown identities.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// AddInvoice persists a new invoice with its full state (lines, discount,
	// tax, status, timestamps, idempotency keys).
	// Returns apperrors.ErrDuplicate if the identity already exists.
	AddInvoice(ctx context.Context, invoice *domain.Invoice) error

	// SaveInvoice updates an existing invoice record. The identity is assumed
	// to exist; read-modify-write atomicity is the adapter's responsibility.
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
// This is a facade for clients that need access to all operations
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
