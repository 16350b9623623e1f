package billing

import (
	"context"
	"time"

	"github.com/retailbook/billing-api/internal/domain/numbering"
	"github.com/retailbook/billing-api/internal/domain/repository"
	"github.com/retailbook/billing-api/pkg/logger"
)

// NumberAllocator assigns the next sequential, fiscal-year-scoped invoice
// number. The primary source is the atomic per-fiscal-year counter; if that
// fails it falls back to counting existing invoices, and as a last resort
// starts at 1. Whatever path produced the number, the unique index on
// invoice_number is the backstop: a collision surfaces as ErrDuplicate at
// save time instead of overwriting anything.
type NumberAllocator struct {
	prefix string
	log    *logger.Logger
	now    func() time.Time
}

// NewNumberAllocator builds the allocator. now may be nil (time.Now).
func NewNumberAllocator(prefix string, log *logger.Logger, now func() time.Time) *NumberAllocator {
	if now == nil {
		now = time.Now
	}
	return &NumberAllocator{prefix: prefix, log: log, now: now}
}

// Allocate consumes the next sequence for the current fiscal year and
// formats it. seqRepo and invoiceRepo should be bound to the caller's
// transaction so a rollback returns the number to the pool.
func (a *NumberAllocator) Allocate(ctx context.Context, seqRepo repository.SequenceRepository, invoiceRepo repository.InvoiceRepository) string {
	now := a.now()
	fy := numbering.FiscalYearCode(now)
	return numbering.Format(a.prefix, now, a.sequence(ctx, fy, seqRepo, invoiceRepo, true))
}

// Reallocate produces a fresh number after collided hit the unique index.
// The colliding sequence was persisted without going through the counter
// (count fallback, manual insert), so the counter is advanced past it;
// retrying with a plain Next would hand out the same number again because
// the rolled-back save also rolled back the increment.
func (a *NumberAllocator) Reallocate(ctx context.Context, seqRepo repository.SequenceRepository, invoiceRepo repository.InvoiceRepository, collided string) string {
	now := a.now()
	fy := numbering.FiscalYearCode(now)

	if taken, ok := numbering.Seq(collided); ok {
		seq, err := seqRepo.Skip(ctx, fy, taken)
		if err == nil {
			return numbering.Format(a.prefix, now, seq)
		}
		a.log.Warn().Err(err).Str("fiscal_year", fy).Msg("sequence skip unavailable, falling back")
	}
	return numbering.Format(a.prefix, now, a.sequence(ctx, fy, seqRepo, invoiceRepo, true))
}

// Preview formats the number the next save would most likely get, without
// consuming a sequence. Advisory: concurrent creation can take it first.
func (a *NumberAllocator) Preview(ctx context.Context, seqRepo repository.SequenceRepository, invoiceRepo repository.InvoiceRepository) string {
	now := a.now()
	fy := numbering.FiscalYearCode(now)
	return numbering.Format(a.prefix, now, a.sequence(ctx, fy, seqRepo, invoiceRepo, false))
}

func (a *NumberAllocator) sequence(ctx context.Context, fy string, seqRepo repository.SequenceRepository, invoiceRepo repository.InvoiceRepository, consume bool) int64 {
	var seq int64
	var err error
	if consume {
		seq, err = seqRepo.Next(ctx, fy)
	} else {
		seq, err = seqRepo.Peek(ctx, fy)
	}
	if err == nil {
		return seq
	}
	a.log.Warn().Err(err).Str("fiscal_year", fy).Msg("sequence counter unavailable, falling back to invoice count")

	count, err := invoiceRepo.Count(ctx)
	if err == nil {
		return count + 1
	}
	a.log.Error().Err(err).Str("fiscal_year", fy).Msg("invoice count unavailable, defaulting sequence to 1")
	return 1
}
