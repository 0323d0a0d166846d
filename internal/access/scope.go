// Package access decides which customers and orders a user may see.
package access

import (
	"babyboss-sales/internal/model"
)

// Labels shown as the direct manager of a user.
const (
	NoManagerLabel      = "N/A"
	BoardLabel          = "Ban Giám Đốc"
	ManagerMissingLabel = "Chưa cập nhật"
)

// Scope is the visibility of one actor over records keyed by creator id.
type Scope struct {
	actor   *model.User
	users   []model.User
	byID    map[string]*model.User
	visible map[string]struct{} // nil means everything
}

// Resolve builds the scope of actor given every known user.
//
//	admin   - all records
//	manager - records created by non-admin users of the same branch, plus own
//	staff   - own records
func Resolve(actor *model.User, users []model.User) *Scope {
	s := &Scope{
		actor: actor,
		users: users,
		byID:  make(map[string]*model.User, len(users)),
	}
	for i := range users {
		s.byID[users[i].ID] = &users[i]
	}

	switch actor.Role {
	case model.RoleAdmin:
		return s
	case model.RoleManager:
		s.visible = map[string]struct{}{actor.ID: {}}
		for _, u := range users {
			if u.Branch == actor.Branch && u.Role != model.RoleAdmin {
				s.visible[u.ID] = struct{}{}
			}
		}
	default:
		s.visible = map[string]struct{}{actor.ID: {}}
	}
	return s
}

// Actor returns the user the scope was resolved for.
func (s *Scope) Actor() *model.User { return s.actor }

// Unrestricted reports whether the actor sees every record.
func (s *Scope) Unrestricted() bool { return s.visible == nil }

// Allows reports whether a record created by createdBy is visible.
func (s *Scope) Allows(createdBy string) bool {
	if s.visible == nil {
		return true
	}
	_, ok := s.visible[createdBy]
	return ok
}

// User looks up a known user by id.
func (s *Scope) User(id string) (*model.User, bool) {
	u, ok := s.byID[id]
	return u, ok
}

// Users returns every known user.
func (s *Scope) Users() []model.User { return s.users }

// Customers filters customers to the visible ones, preserving order.
func (s *Scope) Customers(all []model.Customer) []model.Customer {
	if s.visible == nil {
		return all
	}
	out := make([]model.Customer, 0, len(all))
	for _, c := range all {
		if s.Allows(c.CreatedBy) {
			out = append(out, c)
		}
	}
	return out
}

// Orders filters orders to the visible ones, preserving order.
func (s *Scope) Orders(all []model.Order) []model.Order {
	if s.visible == nil {
		return all
	}
	out := make([]model.Order, 0, len(all))
	for _, o := range all {
		if s.Allows(o.CreatedBy) {
			out = append(out, o)
		}
	}
	return out
}

// CanSeeUser reports whether the actor may act on behalf of target,
// e.g. as the new owner of a customer.
func (s *Scope) CanSeeUser(id string) bool {
	if _, ok := s.byID[id]; !ok && id != s.actor.ID {
		return false
	}
	return s.Allows(id)
}

// CanAssign reports whether the actor holds the customer reassign privilege.
func (s *Scope) CanAssign() bool {
	return s.actor.HasPrivilege(model.PrivCustomerReassign)
}

// Filter narrows a scope for reporting. Branch is honoured for admins only,
// UserID for admins and managers; other callers have them ignored.
type Filter struct {
	Branch model.Branch
	UserID string
}

// Matcher returns a predicate over creator ids combining the scope and the filter.
func (s *Scope) Matcher(f Filter) func(createdBy string) bool {
	var branchIDs map[string]struct{}
	if f.Branch != "" && s.actor.Role.CanViewAll() {
		branchIDs = s.BranchUserIDs(f.Branch)
	}
	userID := ""
	if s.actor.Role.Supervises() {
		userID = f.UserID
	}

	return func(createdBy string) bool {
		if !s.Allows(createdBy) {
			return false
		}
		if branchIDs != nil {
			if _, ok := branchIDs[createdBy]; !ok {
				return false
			}
		}
		return userID == "" || createdBy == userID
	}
}

// BranchUserIDs returns the ids of every user of a branch, any role.
func (s *Scope) BranchUserIDs(b model.Branch) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, u := range s.users {
		if u.Branch == b {
			ids[u.ID] = struct{}{}
		}
	}
	return ids
}

// FilterCustomers applies the scope and f to customers.
func (s *Scope) FilterCustomers(all []model.Customer, f Filter) []model.Customer {
	match := s.Matcher(f)
	out := make([]model.Customer, 0, len(all))
	for _, c := range all {
		if match(c.CreatedBy) {
			out = append(out, c)
		}
	}
	return out
}

// FilterOrders applies the scope and f to orders.
func (s *Scope) FilterOrders(all []model.Order, f Filter) []model.Order {
	match := s.Matcher(f)
	out := make([]model.Order, 0, len(all))
	for _, o := range all {
		if match(o.CreatedBy) {
			out = append(out, o)
		}
	}
	return out
}

// DirectManager returns the label of u's direct manager: nobody for admins,
// the board for managers and the first manager of the branch for staff.
func DirectManager(u *model.User, users []model.User) string {
	switch u.Role {
	case model.RoleAdmin:
		return NoManagerLabel
	case model.RoleManager:
		return BoardLabel
	}
	for _, m := range users {
		if m.Branch == u.Branch && m.Role == model.RoleManager {
			return m.FullName
		}
	}
	return ManagerMissingLabel
}

// ManagedStaffCount counts the staff of a manager's branch. Zero for other roles.
func ManagedStaffCount(u *model.User, users []model.User) int {
	if u.Role != model.RoleManager {
		return 0
	}
	n := 0
	for _, s := range users {
		if s.Branch == u.Branch && s.Role == model.RoleStaff {
			n++
		}
	}
	return n
}
