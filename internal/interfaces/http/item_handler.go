package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/application/dto"
)

// ItemHandler handles catalog item HTTP requests.
type ItemHandler struct {
	uc *billing.ItemUseCase
}

// NewItemHandler builds the handler.
func NewItemHandler(uc *billing.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create registers a catalog item.
// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	item, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetByCode looks an item up by barcode (exact, case-insensitive).
// GET /api/items/code/:code
func (h *ItemHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code required"})
	}
	item, err := h.uc.GetByCode(c.Context(), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// List returns catalog items.
// GET /api/items
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid query"})
	}
	q.Normalize()
	items, err := h.uc.List(c.Context(), q.Limit, q.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
