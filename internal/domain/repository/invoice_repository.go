package repository

import (
	"context"

	"github.com/retailbook/billing-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoices and their lines.
// Create returns domain.ErrDuplicate on an invoice-number collision (the
// unique index is the backstop against allocator races). Replace swaps the
// customer, lines and pricing snapshot of an existing invoice while leaving
// invoice_number and created_at untouched; it returns domain.ErrNotFound
// when the id does not exist. Delete is a hard delete.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Replace(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SequenceRepository hands out invoice sequence numbers per fiscal year.
// Next atomically increments and returns the counter for the given fiscal
// year code, so concurrent allocations never observe the same value.
type SequenceRepository interface {
	Next(ctx context.Context, fiscalYear string) (int64, error)
	// Peek returns the next value without consuming it (number preview).
	Peek(ctx context.Context, fiscalYear string) (int64, error)
	// Skip advances the counter past taken and returns the new value.
	// Used after an invoice-number collision: the counter must move beyond
	// numbers that were persisted without consuming the counter, or every
	// retry would reproduce the same collision.
	Skip(ctx context.Context, fiscalYear string, taken int64) (int64, error)
}
