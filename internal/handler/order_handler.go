package handler

import (
	"babyboss-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetCatalog returns the price table and flavors for the order form
// GET /api/v1/catalog
func (h *OrderHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(h.orderService.Catalog())
}

// Quote prices a draft without saving it
// POST /api/v1/orders/quote
func (h *OrderHandler) Quote(c *fiber.Ctx) error {
	var draft service.OrderDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	quote, err := h.orderService.Quote(currentUserID(c), &draft)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quote)
}

// CreateOrder saves an order
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var draft service.OrderDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	detail, synced, err := h.orderService.CreateOrder(c.UserContext(), currentUserID(c), &draft)
	if err != nil {
		return fail(c, err)
	}
	return saved(c, 201, "Order created successfully", detail, synced)
}

// GetOrder returns an order with its summary
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	detail, err := h.orderService.GetOrder(currentUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

// IsFirstOrder tells whether gifts may be added for a customer
// GET /api/v1/customers/:id/first-order
func (h *OrderHandler) IsFirstOrder(c *fiber.Ctx) error {
	first, err := h.orderService.IsFirstOrder(currentUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"firstOrder": first})
}
