// Package billing contains the invoice pricing core: the line-item ledger,
// the pricing engine that derives a consistent snapshot from it, the manual
// net-total override, and the draft aggregate validated at save time.
package billing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/retailbook/billing-api/internal/domain/entity"
)

// Catalog is the read-side port the ledger uses to resolve lines against
// catalog items. Lookups by code are exact but case-insensitive.
type Catalog interface {
	FindItemByRef(ctx context.Context, ref string) (*entity.Item, error)
	FindItemByCode(ctx context.Context, code string) (*entity.Item, error)
}

// Line is one editable row of the ledger. A line with an empty ItemRef is
// blank: it contributes zero to every total and is dropped at save time.
type Line struct {
	ItemRef   string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Blank reports whether the line has no catalog item attached.
func (l Line) Blank() bool { return l.ItemRef == "" }

// Total returns unitPrice * quantity; zero for blank lines.
func (l Line) Total() decimal.Decimal {
	if l.Blank() {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// LinePatch is a partial update for SetLine. Nil fields are left untouched.
type LinePatch struct {
	ItemRef   *string
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// Ledger is the ordered set of invoice lines under edit. It has value
// semantics: every operation returns a new Ledger and never mutates the
// receiver, so a snapshot handed to a reader stays stable. The last row is
// always kept blank and available for input; the ledger never shrinks below
// one row.
type Ledger struct {
	lines []Line
}

// NewLedger returns a ledger with a single blank row.
func NewLedger() Ledger {
	return Ledger{lines: []Line{{Quantity: 1}}}
}

// LedgerFrom builds a ledger from existing lines (re-opening a persisted
// invoice for editing) and appends the trailing blank row if the last line
// is filled.
func LedgerFrom(lines []Line) Ledger {
	g := Ledger{lines: append([]Line(nil), lines...)}
	if len(g.lines) == 0 {
		return NewLedger()
	}
	return g.growIfLastFilled()
}

// Lines returns a copy of the rows.
func (g Ledger) Lines() []Line {
	return append([]Line(nil), g.lines...)
}

// Len returns the number of rows, including the trailing blank one.
func (g Ledger) Len() int { return len(g.lines) }

// Filled returns the non-blank lines, i.e. what gets persisted.
func (g Ledger) Filled() []Line {
	var out []Line
	for _, l := range g.lines {
		if !l.Blank() {
			out = append(out, l)
		}
	}
	return out
}

// Subtotal sums the totals of all non-blank lines.
func (g Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range g.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// SetLine replaces fields on an existing row. Clearing ItemRef also resets
// UnitPrice to zero: an unresolved row must not retain stale pricing.
func (g Ledger) SetLine(index int, patch LinePatch) Ledger {
	if index < 0 || index >= len(g.lines) {
		return g
	}
	out := g.clone()
	l := &out.lines[index]
	if patch.ItemRef != nil {
		l.ItemRef = *patch.ItemRef
		if *patch.ItemRef == "" {
			l.UnitPrice = decimal.Zero
		}
	}
	if patch.Quantity != nil {
		l.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		l.UnitPrice = *patch.UnitPrice
	}
	return out.growIfLastFilled()
}

// ResolveByCode looks up a catalog item by exact case-insensitive code and
// fills the row on a match. On no match the row becomes unresolved (empty
// ItemRef, zero price) pending manual selection; that is a soft outcome, not
// an error. Storage failures are returned as-is.
func (g Ledger) ResolveByCode(ctx context.Context, cat Catalog, index int, code string) (Ledger, error) {
	if index < 0 || index >= len(g.lines) {
		return g, nil
	}
	item, err := cat.FindItemByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return g, err
	}
	return g.fill(index, item), nil
}

// ResolveByRef resolves a row directly by catalog identifier (the manual
// picker path). Same fill and auto-growth behavior as ResolveByCode.
func (g Ledger) ResolveByRef(ctx context.Context, cat Catalog, index int, ref string) (Ledger, error) {
	if index < 0 || index >= len(g.lines) {
		return g, nil
	}
	item, err := cat.FindItemByRef(ctx, ref)
	if err != nil {
		return g, err
	}
	return g.fill(index, item), nil
}

// AppendBlank appends a blank row unconditionally (explicit "add row").
func (g Ledger) AppendBlank() Ledger {
	out := g.clone()
	out.lines = append(out.lines, Line{Quantity: 1})
	return out
}

// RemoveLine removes a row. Removing the sole row is a no-op.
func (g Ledger) RemoveLine(index int) Ledger {
	if len(g.lines) <= 1 || index < 0 || index >= len(g.lines) {
		return g
	}
	out := Ledger{lines: make([]Line, 0, len(g.lines)-1)}
	out.lines = append(out.lines, g.lines[:index]...)
	out.lines = append(out.lines, g.lines[index+1:]...)
	return out
}

func (g Ledger) fill(index int, item *entity.Item) Ledger {
	out := g.clone()
	l := &out.lines[index]
	if item == nil {
		l.ItemRef = ""
		l.UnitPrice = decimal.Zero
		return out
	}
	l.ItemRef = item.ID
	l.UnitPrice = item.Price
	if l.Quantity <= 0 {
		l.Quantity = 1
	}
	return out.growIfLastFilled()
}

// growIfLastFilled keeps the ledger invariant: whenever the last row is
// filled, a fresh blank row is appended so there is always space for input.
func (g Ledger) growIfLastFilled() Ledger {
	if len(g.lines) == 0 || g.lines[len(g.lines)-1].Blank() {
		return g
	}
	return g.AppendBlank()
}

func (g Ledger) clone() Ledger {
	return Ledger{lines: append([]Line(nil), g.lines...)}
}
