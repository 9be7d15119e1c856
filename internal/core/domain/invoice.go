package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/billingapp/billing_backend/internal/apperrors"
)

// InvoiceStatus indicates where an invoice is in its lifecycle.
type InvoiceStatus string

const (
	StatusDraft  InvoiceStatus = "DRAFT"
	StatusIssued InvoiceStatus = "ISSUED"
	StatusPaid   InvoiceStatus = "PAID"
	StatusVoid   InvoiceStatus = "VOID"
)

// Invoice is the aggregate root for a monetary invoice. It moves through
// DRAFT -> ISSUED -> PAID, with DRAFT or ISSUED voidable; PAID and VOID are
// terminal. Lines, discount and tax are mutable only while in DRAFT and must
// share the invoice currency. All mutation goes through methods; every method
// validates before touching state, so a failed call leaves the invoice
// unchanged.
type Invoice struct {
	invoiceID string
	currency  Currency
	status    InvoiceStatus
	lines     []InvoiceLine
	discount  *Discount
	tax       *Tax
	issuedAt  *time.Time
	paidAt    *time.Time
	voidedAt  *time.Time

	// Idempotency keys are opaque caller-supplied tokens, recorded on the
	// first terminal transition and immutable afterwards.
	paidIdempotencyKey string
	voidIdempotencyKey string
}

// NewInvoice creates a new invoice in DRAFT. The currency is fixed for the
// lifetime of the invoice.
func NewInvoice(invoiceID string, currency Currency) *Invoice {
	return &Invoice{
		invoiceID: invoiceID,
		currency:  currency,
		status:    StatusDraft,
	}
}

// InvoiceRehydrateData carries previously persisted invoice state back into
// an aggregate.
type InvoiceRehydrateData struct {
	InvoiceID          string
	Currency           Currency
	Status             InvoiceStatus
	Lines              []InvoiceLine
	Discount           *Discount
	Tax                *Tax
	IssuedAt           *time.Time
	PaidAt             *time.Time
	VoidedAt           *time.Time
	PaidIdempotencyKey string
	VoidIdempotencyKey string
}

// RehydrateInvoice reconstructs an invoice from stored data. Creation-time
// business rules are not re-run: the data was validated when the state was
// first reached, and re-deriving finalized history (an old issuedAt, say)
// as if it were a fresh mutation would be wrong.
func RehydrateInvoice(data InvoiceRehydrateData) *Invoice {
	inv := NewInvoice(data.InvoiceID, data.Currency)
	inv.status = data.Status
	inv.lines = data.Lines
	inv.discount = data.Discount
	inv.tax = data.Tax
	inv.issuedAt = data.IssuedAt
	inv.paidAt = data.PaidAt
	inv.voidedAt = data.VoidedAt
	inv.paidIdempotencyKey = data.PaidIdempotencyKey
	inv.voidIdempotencyKey = data.VoidIdempotencyKey
	return inv
}

// InvoiceID returns the invoice's opaque identity.
func (inv *Invoice) InvoiceID() string { return inv.invoiceID }

// Currency returns the invoice currency, fixed at creation.
func (inv *Invoice) Currency() Currency { return inv.currency }

// Status returns the current lifecycle status.
func (inv *Invoice) Status() InvoiceStatus { return inv.status }

// Lines returns a copy of the ordered line list.
func (inv *Invoice) Lines() []InvoiceLine {
	lines := make([]InvoiceLine, len(inv.lines))
	copy(lines, inv.lines)
	return lines
}

// Discount returns the discount, or nil if none is set.
func (inv *Invoice) Discount() *Discount { return inv.discount }

// Tax returns the tax, or nil if none is set.
func (inv *Invoice) Tax() *Tax { return inv.tax }

// IssuedAt returns when the invoice was issued, or nil while in DRAFT.
// It is set exactly once and retained forever, including after voiding.
func (inv *Invoice) IssuedAt() *time.Time { return inv.issuedAt }

// PaidAt returns when the invoice was paid, or nil.
func (inv *Invoice) PaidAt() *time.Time { return inv.paidAt }

// VoidedAt returns when the invoice was voided, or nil.
func (inv *Invoice) VoidedAt() *time.Time { return inv.voidedAt }

// PaidIdempotencyKey returns the key recorded by MarkPaid, or "".
func (inv *Invoice) PaidIdempotencyKey() string { return inv.paidIdempotencyKey }

// VoidIdempotencyKey returns the key recorded by Void, or "".
func (inv *Invoice) VoidIdempotencyKey() string { return inv.voidIdempotencyKey }

// AddLine appends a line to a DRAFT invoice. The line's unit price must be
// denominated in the invoice currency.
func (inv *Invoice) AddLine(line InvoiceLine) error {
	if err := inv.requireStatus(StatusDraft, "lines can only be added to a draft invoice"); err != nil {
		return err
	}
	if err := inv.requireCurrency(line.UnitPrice().Currency(), "line currency must match the invoice currency"); err != nil {
		return err
	}
	inv.lines = append(inv.lines, line)
	return nil
}

// SetDiscount sets or replaces the discount on a DRAFT invoice.
// Last write wins while still in DRAFT.
func (inv *Invoice) SetDiscount(discount Discount) error {
	if err := inv.requireStatus(StatusDraft, "discount can only be set on a draft invoice"); err != nil {
		return err
	}
	if err := inv.requireCurrency(discount.Amount().Currency(), "discount currency must match the invoice currency"); err != nil {
		return err
	}
	inv.discount = &discount
	return nil
}

// SetTax sets or replaces the tax on a DRAFT invoice.
// Last write wins while still in DRAFT.
func (inv *Invoice) SetTax(tax Tax) error {
	if err := inv.requireStatus(StatusDraft, "tax can only be set on a draft invoice"); err != nil {
		return err
	}
	if err := inv.requireCurrency(tax.Amount().Currency(), "tax currency must match the invoice currency"); err != nil {
		return err
	}
	inv.tax = &tax
	return nil
}

// Issue transitions a DRAFT invoice with at least one line to ISSUED and
// stamps issuedAt from the clock.
func (inv *Invoice) Issue(clock Clock) error {
	if err := inv.requireStatus(StatusDraft, "only a draft invoice can be issued"); err != nil {
		return err
	}
	if len(inv.lines) == 0 {
		return fmt.Errorf("%w: invoice needs at least one line to be issued", apperrors.ErrInvoiceOperation)
	}
	now := clock.Now()
	inv.status = StatusIssued
	inv.issuedAt = &now
	return nil
}

// Void transitions a DRAFT or ISSUED invoice to VOID, recording the
// idempotency key. Voiding an already VOID invoice with the same key is a
// no-op; with a different key it fails. A PAID invoice cannot be voided.
// issuedAt is retained for audit.
func (inv *Invoice) Void(clock Clock, idempotencyKey string) error {
	replayed, err := inv.checkVoidIdempotency(idempotencyKey)
	if err != nil {
		return err
	}
	if replayed {
		return nil
	}
	if inv.status != StatusDraft && inv.status != StatusIssued {
		return fmt.Errorf("%w: cannot void a paid invoice", apperrors.ErrInvoiceOperation)
	}
	now := clock.Now()
	inv.status = StatusVoid
	inv.voidedAt = &now
	inv.voidIdempotencyKey = idempotencyKey
	return nil
}

// MarkPaid transitions an ISSUED invoice to PAID, recording the idempotency
// key. Marking an already PAID invoice with the same key is a no-op; with a
// different key it fails.
func (inv *Invoice) MarkPaid(clock Clock, idempotencyKey string) error {
	replayed, err := inv.checkPaidIdempotency(idempotencyKey)
	if err != nil {
		return err
	}
	if replayed {
		return nil
	}
	if err := inv.requireStatus(StatusIssued, "only an issued invoice can be marked as paid"); err != nil {
		return err
	}
	now := clock.Now()
	inv.status = StatusPaid
	inv.paidAt = &now
	inv.paidIdempotencyKey = idempotencyKey
	return nil
}

// Subtotal is the sum of all line totals, or zero money of the invoice
// currency when there are no lines.
func (inv *Invoice) Subtotal() Money {
	subtotal := ZeroMoney(inv.currency)
	for _, line := range inv.lines {
		// Same currency throughout the aggregate, Add cannot fail here.
		subtotal, _ = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// Total is subtotal + tax - discount, with missing tax/discount treated as
// zero. A negative result fails with ErrNegativeMoney at read time; the
// invoice itself stays valid and unchanged.
func (inv *Invoice) Total() (Money, error) {
	tax := ZeroMoney(inv.currency)
	if inv.tax != nil {
		tax = inv.tax.Amount()
	}
	discount := ZeroMoney(inv.currency)
	if inv.discount != nil {
		discount = inv.discount.Amount()
	}
	total, err := inv.Subtotal().Add(tax)
	if err != nil {
		return Money{}, err
	}
	total, err = total.Sub(discount)
	if err != nil {
		return Money{}, err
	}
	if total.IsNegative() {
		return Money{}, fmt.Errorf("%w: invoice total is negative", apperrors.ErrNegativeMoney)
	}
	return total, nil
}

func (inv *Invoice) requireStatus(status InvoiceStatus, msg string) error {
	if inv.status != status {
		return fmt.Errorf("%w: %s (current status %s)", apperrors.ErrInvoiceOperation, msg, inv.status)
	}
	return nil
}

func (inv *Invoice) requireCurrency(currency Currency, msg string) error {
	if inv.currency != currency {
		return fmt.Errorf("%w: %s", apperrors.ErrInvoiceCurrencyMismatch, msg)
	}
	return nil
}

func validateIdempotencyKey(idempotencyKey string) error {
	if strings.TrimSpace(idempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency key must not be blank", apperrors.ErrInvoiceOperation)
	}
	return nil
}

// checkVoidIdempotency reports whether the call is a replay of an already
// applied void (true means caller should no-op).
func (inv *Invoice) checkVoidIdempotency(idempotencyKey string) (bool, error) {
	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return false, err
	}
	if inv.status == StatusVoid {
		if inv.voidIdempotencyKey == idempotencyKey {
			return true, nil
		}
		return false, fmt.Errorf("%w: invoice is already voided", apperrors.ErrInvoiceOperation)
	}
	return false, nil
}

// checkPaidIdempotency reports whether the call is a replay of an already
// applied payment (true means caller should no-op).
func (inv *Invoice) checkPaidIdempotency(idempotencyKey string) (bool, error) {
	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return false, err
	}
	if inv.status == StatusPaid {
		if inv.paidIdempotencyKey == idempotencyKey {
			return true, nil
		}
		return false, fmt.Errorf("%w: invoice is already paid", apperrors.ErrInvoiceOperation)
	}
	return false, nil
}
