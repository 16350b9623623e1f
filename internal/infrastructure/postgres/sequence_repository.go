package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/retailbook/billing-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implements the per-fiscal-year invoice counter on a single
// upsert, so two concurrent allocations can never observe the same value.
// The unique index on invoices.invoice_number remains the backstop.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository builds the adapter. Pass a pool or a tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next atomically increments and returns the counter for the fiscal year.
func (r *SequenceRepo) Next(ctx context.Context, fiscalYear string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (fiscal_year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_seq = invoice_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int64
	if err := r.q.QueryRow(ctx, query, fiscalYear).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return seq, nil
}

// Skip advances the counter past taken and returns the new value. GREATEST
// keeps the counter monotonic when another writer already moved it further.
func (r *SequenceRepo) Skip(ctx context.Context, fiscalYear string, taken int64) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (fiscal_year, last_seq)
		VALUES ($1, $2 + 1)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_seq = GREATEST(invoice_sequences.last_seq, $2) + 1
		RETURNING last_seq`
	var seq int64
	if err := r.q.QueryRow(ctx, query, fiscalYear, taken).Scan(&seq); err != nil {
		return 0, fmt.Errorf("skip invoice sequence: %w", err)
	}
	return seq, nil
}

// Peek returns the value Next would hand out, without consuming it.
func (r *SequenceRepo) Peek(ctx context.Context, fiscalYear string) (int64, error) {
	query := `SELECT last_seq FROM invoice_sequences WHERE fiscal_year = $1`
	var last int64
	err := r.q.QueryRow(ctx, query, fiscalYear).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 1, nil
		}
		return 0, fmt.Errorf("peek invoice sequence: %w", err)
	}
	return last + 1, nil
}
