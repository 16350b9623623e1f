package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body for POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// CustomerResponse customer in responses.
type CustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// CreateItemRequest body for POST /api/items.
type CreateItemRequest struct {
	Code     string          `json:"code,omitempty"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand,omitempty"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// ItemResponse catalog item in responses.
type ItemResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code,omitempty"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand,omitempty"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest body for POST /api/invoices and PUT /api/invoices/:id.
// Unit prices are read from the catalog server-side; the client never sets
// them. NetOverride, when present, is the operator's manual grand total and
// produces a rounding adjustment against the computed one.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	Items         []InvoiceItemRequest `json:"items"`
	DiscountType  string               `json:"discount_type,omitempty"` // percent | flat
	DiscountValue decimal.Decimal      `json:"discount_value"`
	NetOverride   *decimal.Decimal     `json:"net_override,omitempty"`
}

// InvoiceItemRequest one requested invoice line.
type InvoiceItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// InvoiceResponse full invoice for responses. The pricing fields are the
// snapshot persisted at save time, returned verbatim.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	InvoiceNumber      string                `json:"invoice_number"`
	CustomerID         string                `json:"customer_id"`
	CustomerName       string                `json:"customer_name,omitempty"`
	Lines              []InvoiceLineResponse `json:"lines"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	DiscountType       string                `json:"discount_type,omitempty"`
	DiscountValue      decimal.Decimal       `json:"discount_value"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	TaxableAmount      decimal.Decimal       `json:"taxable_amount"`
	TaxAmount          decimal.Decimal       `json:"tax_amount"`
	RoundingAdjustment decimal.Decimal       `json:"rounding_adjustment"`
	Total              decimal.Decimal       `json:"total"`
	CreatedAt          string                `json:"created_at"`
}

// InvoiceLineResponse one invoice line in responses.
type InvoiceLineResponse struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NextNumberResponse body for GET /api/invoices/next-number. Advisory only:
// previewing does not consume a sequence, so the number actually assigned at
// save time can differ under concurrent creation.
type NextNumberResponse struct {
	NextNumber string `json:"next_number"`
}
