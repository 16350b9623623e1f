// Package pdf renders the printable copy of a sales invoice.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tax Invoice  │  Invoice number + date              │
//	│  ───────────────────────────────────────────────────────    │
//	│  BILL TO: customer name + address + city                    │
//	│  ───────────────────────────────────────────────────────    │
//	│  TABLE: Qty | Item | Unit Price | Total                     │
//	│  ───────────────────────────────────────────────────────    │
//	│  TOTALS: Subtotal / Discount / GST / Rounding / TOTAL       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/money"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implements billing.InvoicePDFGenerator using Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{}
}

// GenerateInvoicePDF renders the document and returns its bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *appbilling.PDFDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Tax Invoice "+doc.Invoice.InvoiceNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(doc.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(doc.Invoice) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

// headerRow: title on the left, invoice number and date on the right.
func headerRow(inv *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Date: "+inv.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// billToRow: customer block. Unresolved references fall back to the bare ID.
func billToRow(ref entity.CustomerRef) core.Row {
	name := ref.ID
	detail := ""
	if ref.Resolved() {
		name = ref.Customer.Name
		detail = nonEmpty(ref.Customer.Address, "—") + "   |   " + nonEmpty(ref.Customer.City, "—")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 6, align.Left),
		h("Unit Price", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func tableLineRows(lines []appbilling.PDFLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.ItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				l.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: the persisted snapshot, verbatim. The rounding adjustment row
// only appears when the residual is displayable.
func totalsRows(inv *entity.Invoice) []core.Row {
	amountRow := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(9).Add(text.New(label, props.Text{
				Size: 8, Align: align.Right, Style: style, Top: 1, Right: 2,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Size: 8, Align: align.Right, Style: style, Top: 1, Right: 1,
			})),
		)
	}

	rows := []core.Row{
		amountRow("Subtotal", inv.Subtotal.StringFixed(2), false),
	}
	if inv.DiscountAmount.IsPositive() {
		rows = append(rows, amountRow("Discount", "- "+inv.DiscountAmount.StringFixed(2), false))
	}
	rows = append(rows, amountRow("GST", inv.TaxAmount.StringFixed(2), false))
	if !money.Negligible(inv.RoundingAdjustment) {
		sign := ""
		if inv.RoundingAdjustment.IsPositive() {
			sign = "+"
		}
		rows = append(rows, amountRow("Rounding", sign+inv.RoundingAdjustment.StringFixed(2), false))
	}
	rows = append(rows, amountRow("TOTAL", inv.Total.StringFixed(2), true))
	return rows
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
