package handler

import (
	"babyboss-sales/internal/model"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// GetRoles returns the roles with their privileges
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	return c.JSON(model.DefaultRoles)
}

// GetPrivileges returns every privilege code
// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	return c.JSON(model.DefaultPrivileges)
}

// GetBranches returns the branches users can belong to
// GET /api/v1/branches
func (h *RoleHandler) GetBranches(c *fiber.Ctx) error {
	return c.JSON(model.Branches)
}
