package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
	"github.com/retailbook/billing-api/pkg/logger"
)

// In-memory fakes for the billing ports.

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

type memCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newMemCustomerRepo(customers ...*entity.Customer) *memCustomerRepo {
	r := &memCustomerRepo{customers: map[string]*entity.Customer{}}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *memCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *memCustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memItemRepo struct {
	items map[string]*entity.Item
}

func newMemItemRepo(items ...*entity.Item) *memItemRepo {
	r := &memItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.items[id], nil
}

func (r *memItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	order    []string
	countErr error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: map[string]*entity.Invoice{}}
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *memInvoiceRepo) Replace(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	cp.InvoiceNumber = existing.InvoiceNumber
	cp.CreatedAt = existing.CreatedAt
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for i := len(r.order) - 1; i >= 0; i-- {
		if inv, ok := r.invoices[r.order[i]]; ok {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memInvoiceRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.invoices)), nil
}

type memSequenceRepo struct {
	mu      sync.Mutex
	last    map[string]int64
	nextErr error
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{last: map[string]int64{}}
}

func (r *memSequenceRepo) Next(_ context.Context, fy string) (int64, error) {
	if r.nextErr != nil {
		return 0, r.nextErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[fy]++
	return r.last[fy], nil
}

func (r *memSequenceRepo) Peek(_ context.Context, fy string) (int64, error) {
	if r.nextErr != nil {
		return 0, r.nextErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last[fy] + 1, nil
}

func (r *memSequenceRepo) Skip(_ context.Context, fy string, taken int64) (int64, error) {
	if r.nextErr != nil {
		return 0, r.nextErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if taken > r.last[fy] {
		r.last[fy] = taken
	}
	r.last[fy]++
	return r.last[fy], nil
}

func (r *memSequenceRepo) snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.last))
	for k, v := range r.last {
		out[k] = v
	}
	return out
}

func (r *memSequenceRepo) restore(state map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = state
}

// memTxRunner hands the shared fakes to the callback. Sequence state is
// snapshotted before fn and restored when fn fails, mirroring the rollback
// of the real runner: a failed save does not keep its counter increment.
type memTxRunner struct {
	invoices *memInvoiceRepo
	seqs     *memSequenceRepo
	calls    int
}

func (r *memTxRunner) RunBilling(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.calls++
	before := r.seqs.snapshot()
	if err := fn(r.invoices, r.seqs); err != nil {
		r.seqs.restore(before)
		return err
	}
	return nil
}

var _ billing.TxRunner = (*memTxRunner)(nil)
var errStorageDown = errors.New("storage unavailable")
