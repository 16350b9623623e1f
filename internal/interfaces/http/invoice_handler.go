package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/application/dto"
)

// InvoiceHandler handles invoice HTTP requests.
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// Create validates, prices and persists a new invoice.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	invoice, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List returns invoices newest first.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid query"})
	}
	q.Normalize()
	invoices, err := h.uc.List(c.Context(), q.Limit, q.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// GetByID returns one invoice with its persisted snapshot.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	invoice, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Replace swaps customer, lines and pricing of an existing invoice. The
// invoice number and creation date are untouched.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Replace(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	invoice, err := h.uc.Replace(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// Delete hard-deletes an invoice.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// NextNumber previews the next invoice number without consuming a sequence.
// GET /api/invoices/next-number
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	return c.JSON(h.uc.NextNumber(c.Context()))
}

// PDF streams the printable invoice copy.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	out, err := h.pdf.GenerateInvoicePDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="invoice-`+id+`.pdf"`)
	return c.Send(out)
}
