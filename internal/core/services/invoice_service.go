package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/billingapp/billing_backend/internal/core/domain"
	portsrepo "github.com/billingapp/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/billingapp/billing_backend/internal/core/ports/services"
	"github.com/billingapp/billing_backend/internal/dto"
)

// invoiceService implements the invoice use cases over the repository and
// clock ports. Each mutating operation is load -> domain mutation -> save;
// the aggregate enforces its own invariants, the service only orchestrates.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	clock       domain.Clock
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, clock domain.Clock) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clock:       clock,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	currency, err := domain.CurrencyFromCode(req.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invoice currency: %w", err)
	}

	invoiceID := req.InvoiceID
	if invoiceID == "" {
		invoiceID = uuid.NewString()
	}

	invoice := domain.NewInvoice(invoiceID, currency)
	if err := s.invoiceRepo.AddInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to add invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) AddInvoiceLine(ctx context.Context, invoiceID string, req dto.AddInvoiceLineRequest) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	// The unit price is denominated in the invoice's own currency.
	line, err := domain.NewInvoiceLine(req.Description, domain.NewMoney(req.UnitPrice, invoice.Currency()), req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := invoice.AddLine(line); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) SetInvoiceDiscount(ctx context.Context, invoiceID string, req dto.SetAmountRequest) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	discount := domain.NewDiscount(domain.NewMoney(req.Amount, invoice.Currency()))
	if err := invoice.SetDiscount(discount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) SetInvoiceTax(ctx context.Context, invoiceID string, req dto.SetAmountRequest) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	tax := domain.NewTax(domain.NewMoney(req.Amount, invoice.Currency()))
	if err := invoice.SetTax(tax); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) IssueInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := invoice.Issue(s.clock); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, req dto.IdempotentOperationRequest) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := invoice.Void(s.clock, req.IdempotencyKey); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.IdempotentOperationRequest) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if err := invoice.MarkPaid(s.clock, req.IdempotencyKey); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}
