package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount kinds accepted on an invoice.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

// Invoice is the persisted invoice header. The pricing fields are the frozen
// snapshot computed at save time and are never recomputed on read, so
// historical invoices keep the discount and tax amounts in effect when they
// were created even if the configured rate changes later.
type Invoice struct {
	ID                 string
	InvoiceNumber      string // unique, immutable after creation
	CustomerID         string
	Lines              []InvoiceLine
	Subtotal           decimal.Decimal
	DiscountType       string // percent | flat
	DiscountValue      decimal.Decimal
	DiscountAmount     decimal.Decimal
	TaxableAmount      decimal.Decimal
	TaxAmount          decimal.Decimal
	RoundingAdjustment decimal.Decimal // total - (taxableAmount + taxAmount); informational residual
	Total              decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InvoiceLine is one persisted invoice line. UnitPrice is the catalog price
// at creation time, not a live reference.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// CustomerRef is a reference to a customer on a denormalized read path:
// either the bare ID or the fully loaded record when the join succeeded.
type CustomerRef struct {
	ID       string
	Customer *Customer
}

// Resolved reports whether the full customer record is attached.
func (r CustomerRef) Resolved() bool { return r.Customer != nil }

// ItemRef is the same tagged reference for catalog items on invoice lines.
type ItemRef struct {
	ID   string
	Item *Item
}

// Resolved reports whether the full item record is attached.
func (r ItemRef) Resolved() bool { return r.Item != nil }
