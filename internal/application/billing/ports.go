package billing

import (
	"context"

	"github.com/retailbook/billing-api/internal/domain/repository"
)

// TxRunner runs a function inside one transaction with the billing repos
// bound to it. Allocation and insert share the transaction so a rolled-back
// save does not burn a sequence number.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// InvoicePDFGenerator renders the printable invoice copy.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *PDFDocument) ([]byte, error)
}
