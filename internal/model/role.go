package model

import "strings"

// Role is the visibility tier of a user.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Branch is one of the two company branches.
type Branch string

const (
	BranchHeadOffice Branch = "Baby Boss Hội sở"
	BranchNorth      Branch = "Baby Boss miền Bắc"
)

// Branches lists every branch in display order.
var Branches = []Branch{BranchHeadOffice, BranchNorth}

// RoleInfo describes a role for the role listing endpoint.
type RoleInfo struct {
	Code        Role     `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// DefaultRoles defines the roles known to the system
var DefaultRoles = []RoleInfo{
	{
		Code:        RoleStaff,
		Name:        "Staff (Nhân viên)",
		Description: "Sees and edits only the customers and orders they created",
	},
	{
		Code:        RoleManager,
		Name:        "Manager (Quản lý)",
		Description: "Sees every non-admin record of their branch",
	},
	{
		Code:        RoleAdmin,
		Name:        "Admin (Quản trị)",
		Description: "Full access to every branch and user management",
	},
}

// ParseRole lower-cases a role coming from the sheet or a request.
// Empty or unknown values fall back to staff.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return RoleStaff
	}
	return r
}

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanViewAll reports whether the role may use the admin-only branch filter.
func (r Role) CanViewAll() bool {
	return r == RoleAdmin
}

// Supervises reports whether the role sees records of other users.
func (r Role) Supervises() bool {
	return r == RoleAdmin || r == RoleManager
}

func (b Branch) Valid() bool {
	for _, known := range Branches {
		if b == known {
			return true
		}
	}
	return false
}
