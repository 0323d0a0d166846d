package handler

import (
	"babyboss-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, synced, err := h.userService.CreateUser(c.UserContext(), currentUserID(c), &req)
	if err != nil {
		return fail(c, err)
	}

	return saved(c, 201, "User created successfully", user, synced)
}

// GetUsers returns the users visible to the caller with their direct manager
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(currentUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, synced, err := h.userService.UpdateUser(c.UserContext(), currentUserID(c), c.Params("id"), &req)
	if err != nil {
		return fail(c, err)
	}

	return saved(c, 200, "User updated successfully", user, synced)
}

// FilterOptions lists the branches and users the report filters offer
// GET /api/v1/reports/filters
func (h *UserHandler) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.userService.FilterOptions(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(opts)
}
