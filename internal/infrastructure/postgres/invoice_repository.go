package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
// The pricing snapshot columns are written and read verbatim; totals are
// never recomputed from the lines on the read path.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, customer_id, subtotal,
	discount_type, discount_value, discount_amount, taxable_amount,
	tax_amount, rounding_adjustment, total, created_at, updated_at`

// Create persists the invoice header and its lines. A duplicate
// invoice_number maps to domain.ErrDuplicate so the caller can reallocate.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.CustomerID, invoice.Subtotal,
		invoice.DiscountType, invoice.DiscountValue, invoice.DiscountAmount,
		invoice.TaxableAmount, invoice.TaxAmount, invoice.RoundingAdjustment,
		invoice.Total, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertLines(ctx, invoice)
}

// Replace swaps customer, lines and pricing snapshot of an existing invoice.
// invoice_number and created_at stay as they are. Run inside a transaction:
// the lines are deleted and reinserted.
func (r *InvoiceRepo) Replace(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id         = $2,
		    subtotal            = $3,
		    discount_type       = $4,
		    discount_value      = $5,
		    discount_amount     = $6,
		    taxable_amount      = $7,
		    tax_amount          = $8,
		    rounding_adjustment = $9,
		    total               = $10,
		    updated_at          = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Subtotal,
		invoice.DiscountType, invoice.DiscountValue, invoice.DiscountAmount,
		invoice.TaxableAmount, invoice.TaxAmount, invoice.RoundingAdjustment,
		invoice.Total, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return r.insertLines(ctx, invoice)
}

func (r *InvoiceRepo) insertLines(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range invoice.Lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, invoice.ID, l.ItemID, l.Quantity, l.UnitPrice, l.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID returns a complete invoice with its lines, or nil.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.Subtotal,
		&inv.DiscountType, &inv.DiscountValue, &inv.DiscountAmount,
		&inv.TaxableAmount, &inv.TaxAmount, &inv.RoundingAdjustment,
		&inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

// List returns invoices newest first, lines included.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.Subtotal,
			&inv.DiscountType, &inv.DiscountValue, &inv.DiscountAmount,
			&inv.TaxableAmount, &inv.TaxAmount, &inv.RoundingAdjustment,
			&inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range list {
		lines, err := r.linesByInvoiceID(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}
	return list, nil
}

func (r *InvoiceRepo) linesByInvoiceID(ctx context.Context, invoiceID string) ([]entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, item_id, quantity, unit_price, line_total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Delete hard-deletes an invoice and its lines. Two statements; run inside
// a transaction so a failure between them cannot leave a header without its
// lines.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the total number of persisted invoices (allocator fallback).
func (r *InvoiceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}
