package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog item (SKU). Code is the scannable barcode used for
// quick entry on the invoice form; lookup by code is case-insensitive.
type Item struct {
	ID        string
	Code      string
	Name      string
	Brand     string
	Category  string
	Price     decimal.Decimal // selling price, snapshotted onto invoice lines at selection time
	CreatedAt time.Time
	UpdatedAt time.Time
}
