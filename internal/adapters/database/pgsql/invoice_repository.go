package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/billingapp/billing_backend/internal/core/domain"
	portsrepo "github.com/billingapp/billing_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// uniqueViolationCode is the Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// PgxInvoiceRepository persists invoices in Postgres. Monetary amounts are
// stored as integer minor units (round(amount * 10^exponent)) so Money values
// round-trip exactly, with no floating-point drift. Quantities are stored as
// decimal text for the same reason.
type PgxInvoiceRepository struct {
	BaseRepository
}

// NewPgxInvoiceRepository creates a new repository for invoice data.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

// invoiceRow mirrors a row of the invoices table.
type invoiceRow struct {
	InvoiceID           string
	CurrencyCode        string
	Status              string
	TaxAmountMinor      *int64
	DiscountAmountMinor *int64
	IssuedAt            *time.Time
	PaidAt              *time.Time
	VoidedAt            *time.Time
	PaidIdempotencyKey  *string
	VoidIdempotencyKey  *string
}

// FindInvoiceByID retrieves an invoice with its lines and rehydrates the aggregate.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT invoice_id, currency_code, status, tax_amount_minor, discount_amount_minor,
		       issued_at, paid_at, voided_at, paid_idempotency_key, void_idempotency_key
		FROM invoices
		WHERE invoice_id = $1;
	`
	var row invoiceRow
	err := r.Pool.QueryRow(ctx, query, invoiceID).Scan(
		&row.InvoiceID,
		&row.CurrencyCode,
		&row.Status,
		&row.TaxAmountMinor,
		&row.DiscountAmountMinor,
		&row.IssuedAt,
		&row.PaidAt,
		&row.VoidedAt,
		&row.PaidIdempotencyKey,
		&row.VoidIdempotencyKey,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Map db not found error to application specific error
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by id %s: %w", invoiceID, err)
	}

	currency, err := domain.CurrencyFromCode(row.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stored currency for invoice %s: %w", invoiceID, err)
	}

	lines, err := r.findInvoiceLines(ctx, invoiceID, currency)
	if err != nil {
		return nil, err
	}

	data := domain.InvoiceRehydrateData{
		InvoiceID: row.InvoiceID,
		Currency:  currency,
		Status:    domain.InvoiceStatus(row.Status),
		Lines:     lines,
		IssuedAt:  row.IssuedAt,
		PaidAt:    row.PaidAt,
		VoidedAt:  row.VoidedAt,
	}
	if row.TaxAmountMinor != nil {
		tax := domain.NewTax(domain.MoneyFromMinorUnits(*row.TaxAmountMinor, currency))
		data.Tax = &tax
	}
	if row.DiscountAmountMinor != nil {
		discount := domain.NewDiscount(domain.MoneyFromMinorUnits(*row.DiscountAmountMinor, currency))
		data.Discount = &discount
	}
	if row.PaidIdempotencyKey != nil {
		data.PaidIdempotencyKey = *row.PaidIdempotencyKey
	}
	if row.VoidIdempotencyKey != nil {
		data.VoidIdempotencyKey = *row.VoidIdempotencyKey
	}

	return domain.RehydrateInvoice(data), nil
}

// findInvoiceLines loads the ordered lines of an invoice.
func (r *PgxInvoiceRepository) findInvoiceLines(ctx context.Context, invoiceID string, currency domain.Currency) ([]domain.InvoiceLine, error) {
	query := `
		SELECT description, unit_price_minor, quantity
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InvoiceLine, error) {
		var (
			description    string
			unitPriceMinor int64
			quantityText   string
		)
		if err := row.Scan(&description, &unitPriceMinor, &quantityText); err != nil {
			return domain.InvoiceLine{}, err
		}
		quantity, err := decimal.NewFromString(quantityText)
		if err != nil {
			return domain.InvoiceLine{}, fmt.Errorf("invalid stored quantity %q: %w", quantityText, err)
		}
		return domain.NewInvoiceLine(description, domain.MoneyFromMinorUnits(unitPriceMinor, currency), quantity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines for invoice %s: %w", invoiceID, err)
	}
	return lines, nil
}

// AddInvoice inserts a new invoice and its lines within a DB transaction.
func (r *PgxInvoiceRepository) AddInvoice(ctx context.Context, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO invoices (invoice_id, currency_code, status, tax_amount_minor, discount_amount_minor,
		                      issued_at, paid_at, voided_at, paid_idempotency_key, void_idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query, invoiceInsertArgs(invoice)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID(), err)
	}

	if err := r.insertInvoiceLines(ctx, tx, invoice); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveInvoice updates an existing invoice and rewrites its lines within a DB transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices
		SET currency_code = $2, status = $3, tax_amount_minor = $4, discount_amount_minor = $5,
		    issued_at = $6, paid_at = $7, voided_at = $8,
		    paid_idempotency_key = $9, void_idempotency_key = $10,
		    last_updated_at = now()
		WHERE invoice_id = $1;
	`
	tag, err := tx.Exec(ctx, query, invoiceInsertArgs(invoice)...)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID(), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	deleteQuery := `DELETE FROM invoice_lines WHERE invoice_id = $1;`
	if _, err := tx.Exec(ctx, deleteQuery, invoice.InvoiceID()); err != nil {
		return fmt.Errorf("failed to delete lines for invoice %s: %w", invoice.InvoiceID(), err)
	}

	if err := r.insertInvoiceLines(ctx, tx, invoice); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// insertInvoiceLines writes the invoice's lines, preserving their order.
func (r *PgxInvoiceRepository) insertInvoiceLines(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoice_lines (invoice_id, position, description, unit_price_minor, quantity)
		VALUES ($1, $2, $3, $4, $5);
	`
	for i, line := range invoice.Lines() {
		_, err := tx.Exec(ctx, query,
			invoice.InvoiceID(),
			i,
			line.Description(),
			line.UnitPrice().MinorUnits(),
			line.Quantity().String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert line %d for invoice %s: %w", i, invoice.InvoiceID(), err)
		}
	}
	return nil
}

// invoiceInsertArgs flattens the aggregate into column values shared by the
// insert and update statements. Optional values are passed as nil pointers so
// they are stored as NULL.
func invoiceInsertArgs(invoice *domain.Invoice) []any {
	var taxMinor, discountMinor *int64
	if tax := invoice.Tax(); tax != nil {
		v := tax.Amount().MinorUnits()
		taxMinor = &v
	}
	if discount := invoice.Discount(); discount != nil {
		v := discount.Amount().MinorUnits()
		discountMinor = &v
	}

	return []any{
		invoice.InvoiceID(),
		invoice.Currency().Code,
		string(invoice.Status()),
		taxMinor,
		discountMinor,
		invoice.IssuedAt(),
		invoice.PaidAt(),
		invoice.VoidedAt(),
		nullableKey(invoice.PaidIdempotencyKey()),
		nullableKey(invoice.VoidIdempotencyKey()),
	}
}

func nullableKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
