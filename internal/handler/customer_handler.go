package handler

import (
	"babyboss-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetCustomers returns the customers visible to the caller
// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerService.GetCustomers(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer returns a customer with its purchase stats and history
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	detail, err := h.customerService.GetCustomer(currentUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

// CreateCustomer registers a customer owned by the caller
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, synced, err := h.customerService.CreateCustomer(c.UserContext(), currentUserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return saved(c, 201, "Customer created successfully", customer, synced)
}

// UpdateCustomer edits a customer and optionally reassigns its owner
// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, synced, err := h.customerService.UpdateCustomer(c.UserContext(), currentUserID(c), c.Params("id"), &req)
	if err != nil {
		return fail(c, err)
	}
	return saved(c, 200, "Customer updated successfully", customer, synced)
}
