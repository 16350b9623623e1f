package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailbook/billing-api/internal/application/billing"
	"github.com/retailbook/billing-api/internal/application/dto"
)

// CustomerHandler handles customer HTTP requests.
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create registers a customer.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	customer, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List returns customers.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid query"})
	}
	q.Normalize()
	customers, err := h.uc.List(c.Context(), q.Limit, q.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}
