package access

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/model"
)

func user(id string, role model.Role, branch model.Branch) model.User {
	u := model.User{FullName: "User " + id, Username: id, Role: role, Branch: branch}
	u.ID = id
	return u
}

func fixtureUsers() []model.User {
	return []model.User{
		user("admin", model.RoleAdmin, model.BranchHeadOffice),
		user("mgr-hq", model.RoleManager, model.BranchHeadOffice),
		user("staff-hq", model.RoleStaff, model.BranchHeadOffice),
		user("staff-hq2", model.RoleStaff, model.BranchHeadOffice),
		user("mgr-north", model.RoleManager, model.BranchNorth),
		user("staff-north", model.RoleStaff, model.BranchNorth),
	}
}

func orderBy(id, creator string) model.Order {
	o := model.Order{Date: "2025-03-01"}
	o.ID = id
	o.CreatedBy = creator
	return o
}

func ids(orders []model.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func fixtureOrders() []model.Order {
	return []model.Order{
		orderBy("o1", "admin"),
		orderBy("o2", "mgr-hq"),
		orderBy("o3", "staff-hq"),
		orderBy("o4", "staff-hq2"),
		orderBy("o5", "mgr-north"),
		orderBy("o6", "staff-north"),
		orderBy("o7", "ghost"),
	}
}

func TestResolveByRole(t *testing.T) {
	users := fixtureUsers()
	orders := fixtureOrders()

	tests := []struct {
		name  string
		actor int
		want  []string
	}{
		{"admin sees all", 0, []string{"o1", "o2", "o3", "o4", "o5", "o6", "o7"}},
		{"manager sees branch minus admin", 1, []string{"o2", "o3", "o4"}},
		{"north manager", 4, []string{"o5", "o6"}},
		{"staff sees own", 2, []string{"o3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := Resolve(&users[tt.actor], users)
			assert.Equal(t, tt.want, ids(scope.Orders(orders)))
		})
	}
}

func TestManagerSeesSelfWhenMissingFromUserList(t *testing.T) {
	actor := user("mgr-new", model.RoleManager, model.BranchNorth)
	scope := Resolve(&actor, fixtureUsers())

	assert.True(t, scope.Allows("mgr-new"))
	assert.True(t, scope.Allows("staff-north"))
	assert.False(t, scope.Allows("staff-hq"))
}

func TestCustomersUseSameRule(t *testing.T) {
	users := fixtureUsers()
	c1 := model.Customer{Name: "A"}
	c1.CreatedBy = "staff-hq"
	c2 := model.Customer{Name: "B"}
	c2.CreatedBy = "staff-north"

	scope := Resolve(&users[1], users)
	got := scope.Customers([]model.Customer{c1, c2})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestMatcherFilters(t *testing.T) {
	users := fixtureUsers()
	orders := fixtureOrders()

	admin := Resolve(&users[0], users)
	assert.Equal(t, []string{"o5", "o6"}, ids(admin.FilterOrders(orders, Filter{Branch: model.BranchNorth})))
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, ids(admin.FilterOrders(orders, Filter{Branch: model.BranchHeadOffice})))
	assert.Equal(t, []string{"o3"}, ids(admin.FilterOrders(orders, Filter{UserID: "staff-hq"})))

	// branch filter is admin only
	manager := Resolve(&users[1], users)
	assert.Equal(t, []string{"o2", "o3", "o4"}, ids(manager.FilterOrders(orders, Filter{Branch: model.BranchNorth})))
	assert.Equal(t, []string{"o4"}, ids(manager.FilterOrders(orders, Filter{UserID: "staff-hq2"})))
	assert.Empty(t, manager.FilterOrders(orders, Filter{UserID: "staff-north"}))

	// user filter is ignored for staff
	staff := Resolve(&users[2], users)
	assert.Equal(t, []string{"o3"}, ids(staff.FilterOrders(orders, Filter{UserID: "staff-hq2"})))
}

func TestCanSeeUser(t *testing.T) {
	users := fixtureUsers()

	manager := Resolve(&users[1], users)
	assert.True(t, manager.CanAssign())
	assert.True(t, manager.CanSeeUser("staff-hq"))
	assert.False(t, manager.CanSeeUser("staff-north"))
	assert.False(t, manager.CanSeeUser("admin"))
	assert.False(t, manager.CanSeeUser("ghost"))

	admin := Resolve(&users[0], users)
	assert.True(t, admin.CanSeeUser("staff-north"))
	assert.False(t, admin.CanSeeUser("ghost"))

	staff := Resolve(&users[2], users)
	assert.False(t, staff.CanAssign())
}

func TestCanAssignFollowsReassignPrivilege(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RoleManager, model.RoleStaff} {
		u := model.User{Username: string(role), Role: role}
		u.ID = string(role)
		scope := Resolve(&u, []model.User{u})
		assert.Equal(t, slices.Contains(model.PrivilegesFor(role), model.PrivCustomerReassign), scope.CanAssign(), role)
	}
}

func TestDirectManager(t *testing.T) {
	users := fixtureUsers()

	assert.Equal(t, NoManagerLabel, DirectManager(&users[0], users))
	assert.Equal(t, BoardLabel, DirectManager(&users[1], users))
	assert.Equal(t, "User mgr-hq", DirectManager(&users[2], users))

	lonely := user("s", model.RoleStaff, model.BranchNorth)
	assert.Equal(t, ManagerMissingLabel, DirectManager(&lonely, users[:4]))

	assert.Equal(t, 2, ManagedStaffCount(&users[1], users))
	assert.Equal(t, 0, ManagedStaffCount(&users[2], users))
}
