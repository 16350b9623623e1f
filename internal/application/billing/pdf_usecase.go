package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
)

// PDFDocument is everything the generator needs to render one invoice:
// the header, the resolved customer and the lines with item names attached.
type PDFDocument struct {
	Invoice  *entity.Invoice
	Customer entity.CustomerRef
	Lines    []PDFLine
}

// PDFLine is one printable line.
type PDFLine struct {
	ItemName  string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// PDFUseCase assembles the document for the printable invoice copy and
// hands it to the generator.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	itemRepo     repository.ItemRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase wires the use case.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	itemRepo repository.ItemRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		generator:    generator,
	}
}

// GenerateInvoicePDF renders the invoice identified by id.
func (uc *PDFUseCase) GenerateInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	// Denormalized read path: joins may partially fail, so the reference
	// carries the bare ID when the record could not be loaded.
	ref := entity.CustomerRef{ID: inv.CustomerID}
	if customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID); err == nil {
		ref.Customer = customer
	}

	lines := make([]PDFLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		line := PDFLine{
			ItemName:  l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		}
		if item, err := uc.itemRepo.GetByID(ctx, l.ItemID); err == nil && item != nil {
			line.ItemName = item.Name
		}
		lines = append(lines, line)
	}

	return uc.generator.GenerateInvoicePDF(ctx, &PDFDocument{
		Invoice:  inv,
		Customer: ref,
		Lines:    lines,
	})
}
