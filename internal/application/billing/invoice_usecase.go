package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retailbook/billing-api/internal/application/dto"
	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/billing"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
	"github.com/retailbook/billing-api/pkg/logger"
)

// InvoiceUseCase drives the invoice lifecycle: build a draft from a request,
// finalize it through the pricing engine, allocate a number and persist.
// It also covers full-replace update, hard delete and the read paths.
type InvoiceUseCase struct {
	tx           TxRunner
	customerRepo repository.CustomerRepository
	itemRepo     repository.ItemRepository
	invoiceRepo  repository.InvoiceRepository
	seqRepo      repository.SequenceRepository
	engine       billing.Engine
	allocator    *NumberAllocator
	log          *logger.Logger
}

// NewInvoiceUseCase wires the use case.
func NewInvoiceUseCase(
	tx TxRunner,
	customerRepo repository.CustomerRepository,
	itemRepo repository.ItemRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
	engine billing.Engine,
	allocator *NumberAllocator,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		tx:           tx,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		invoiceRepo:  invoiceRepo,
		seqRepo:      seqRepo,
		engine:       engine,
		allocator:    allocator,
		log:          log,
	}
}

// catalogAdapter exposes ItemRepository through the ledger's Catalog port.
type catalogAdapter struct {
	items repository.ItemRepository
}

func (c catalogAdapter) FindItemByRef(ctx context.Context, ref string) (*entity.Item, error) {
	return c.items.GetByID(ctx, ref)
}

func (c catalogAdapter) FindItemByCode(ctx context.Context, code string) (*entity.Item, error) {
	return c.items.GetByCode(ctx, code)
}

// Create validates, prices and persists a new invoice. The sequence is
// consumed inside the same transaction as the insert, so a failed save does
// not burn a number. On a number collision the retry runs exactly once and
// advances the counter past the taken number.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, customer, err := uc.buildDraft(ctx, in)
	if err != nil {
		return nil, err
	}
	lines, snap, err := draft.Finalize(uc.engine)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := uc.toEntity(uuid.New().String(), in, lines, snap, now)

	for attempt := 0; ; attempt++ {
		collided := inv.InvoiceNumber
		err = uc.tx.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, seqRepo repository.SequenceRepository) error {
			if collided == "" {
				inv.InvoiceNumber = uc.allocator.Allocate(ctx, seqRepo, invoiceRepo)
			} else {
				inv.InvoiceNumber = uc.allocator.Reallocate(ctx, seqRepo, invoiceRepo, collided)
			}
			return invoiceRepo.Create(ctx, inv)
		})
		if errors.Is(err, domain.ErrDuplicate) && attempt == 0 {
			uc.log.Warn().Str("invoice_number", inv.InvoiceNumber).Msg("invoice number collision, reallocating once")
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).Msg("invoice created")
	return uc.toResponse(ctx, inv, customer), nil
}

// Replace swaps customer, lines and pricing snapshot of an existing invoice.
// InvoiceNumber and CreatedAt are immutable; there is no version column, so
// concurrent replaces are last-write-wins.
func (uc *InvoiceUseCase) Replace(ctx context.Context, id string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	draft, customer, err := uc.buildDraft(ctx, in)
	if err != nil {
		return nil, err
	}
	lines, snap, err := draft.Finalize(uc.engine)
	if err != nil {
		return nil, err
	}

	inv := uc.toEntity(existing.ID, in, lines, snap, existing.CreatedAt)
	inv.InvoiceNumber = existing.InvoiceNumber
	inv.UpdatedAt = time.Now()

	err = uc.tx.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.SequenceRepository) error {
		return invoiceRepo.Replace(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, inv, customer), nil
}

// Get returns one invoice with its persisted snapshot, verbatim.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	customer, _ := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	return uc.toResponse(ctx, inv, customer), nil
}

// List returns invoices newest first.
func (uc *InvoiceUseCase) List(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		customer, _ := uc.customerRepo.GetByID(ctx, inv.CustomerID)
		out = append(out, uc.toResponse(ctx, inv, customer))
	}
	return out, nil
}

// Delete hard-deletes an invoice and its lines in one transaction. No
// effect on customers, items or the numbers of other invoices.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.SequenceRepository) error {
		return invoiceRepo.Delete(ctx, id)
	})
}

// NextNumber previews the number the next save would get without consuming
// a sequence.
func (uc *InvoiceUseCase) NextNumber(ctx context.Context) *dto.NextNumberResponse {
	return &dto.NextNumberResponse{
		NextNumber: uc.allocator.Preview(ctx, uc.seqRepo, uc.invoiceRepo),
	}
}

// buildDraft turns the request into a validated draft: customer loaded,
// every requested line resolved against the catalog with the current price
// snapshotted on. A line whose item cannot be resolved fails the save, and
// an explicit non-positive quantity is rejected before resolution so the
// ledger's quantity defaulting never rewrites what the caller sent.
func (uc *InvoiceUseCase) buildDraft(ctx context.Context, in dto.CreateInvoiceRequest) (billing.Draft, *entity.Customer, error) {
	if in.CustomerID == "" {
		return billing.Draft{}, nil, &billing.ValidationError{Field: "customer", Reason: "is required"}
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return billing.Draft{}, nil, err
	}
	if customer == nil {
		return billing.Draft{}, nil, domain.ErrNotFound
	}

	kind := in.DiscountType
	switch kind {
	case "":
		kind = entity.DiscountPercent
	case entity.DiscountPercent, entity.DiscountFlat:
	default:
		return billing.Draft{}, nil, &billing.ValidationError{Field: "discount_type", Reason: "must be percent or flat"}
	}

	cat := catalogAdapter{items: uc.itemRepo}
	ledger := billing.NewLedger()
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return billing.Draft{}, nil, &billing.ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", i),
				Reason: "must be positive",
			}
		}
		qty := item.Quantity
		ledger = ledger.SetLine(i, billing.LinePatch{Quantity: &qty})
		ledger, err = ledger.ResolveByRef(ctx, cat, i, item.ItemID)
		if err != nil {
			return billing.Draft{}, nil, err
		}
		if ledger.Lines()[i].Blank() {
			return billing.Draft{}, nil, domain.ErrNotFound
		}
	}

	draft := billing.Draft{
		CustomerRef: in.CustomerID,
		Ledger:      ledger,
		Discount:    billing.DiscountSpec{Kind: kind, Value: in.DiscountValue},
	}
	if in.NetOverride != nil {
		draft.Override = billing.CommittedOverride(*in.NetOverride)
	}
	return draft, customer, nil
}

func (uc *InvoiceUseCase) toEntity(id string, in dto.CreateInvoiceRequest, lines []billing.Line, snap billing.Snapshot, createdAt time.Time) *entity.Invoice {
	inv := &entity.Invoice{
		ID:                 id,
		CustomerID:         in.CustomerID,
		Subtotal:           snap.Subtotal,
		DiscountType:       in.DiscountType,
		DiscountValue:      in.DiscountValue,
		DiscountAmount:     snap.DiscountAmount,
		TaxableAmount:      snap.TaxableAmount,
		TaxAmount:          snap.TaxAmount,
		RoundingAdjustment: snap.RoundingAdjustment,
		Total:              snap.FinalTotal,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	if inv.DiscountType == "" {
		inv.DiscountType = entity.DiscountPercent
	}
	for _, l := range lines {
		inv.Lines = append(inv.Lines, entity.InvoiceLine{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			ItemID:    l.ItemRef,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Total(),
		})
	}
	return inv
}

func (uc *InvoiceUseCase) toResponse(ctx context.Context, inv *entity.Invoice, customer *entity.Customer) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		Subtotal:           inv.Subtotal,
		DiscountType:       inv.DiscountType,
		DiscountValue:      inv.DiscountValue,
		DiscountAmount:     inv.DiscountAmount,
		TaxableAmount:      inv.TaxableAmount,
		TaxAmount:          inv.TaxAmount,
		RoundingAdjustment: inv.RoundingAdjustment,
		Total:              inv.Total,
		CreatedAt:          inv.CreatedAt.Format(time.RFC3339),
		Lines:              make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	if customer != nil {
		resp.CustomerName = customer.Name
	}
	for _, l := range inv.Lines {
		line := dto.InvoiceLineResponse{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			LineTotal: l.LineTotal,
		}
		if item, err := uc.itemRepo.GetByID(ctx, l.ItemID); err == nil && item != nil {
			line.ItemName = item.Name
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}
