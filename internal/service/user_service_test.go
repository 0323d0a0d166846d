package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/pkg/validator"
)

func TestCreateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, synced, err := e.user.CreateUser(ctx, SeedAdminID, &CreateUserRequest{
		FullName: "Lê Bình",
		Username: "binh",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, SyncSent, synced)
	assert.Equal(t, model.RoleStaff, resp.Role)
	assert.Equal(t, model.BranchHeadOffice, resp.Branch)
	assert.Equal(t, DefaultPosition, resp.Position)
	assert.Equal(t, "Minh Quản Lý", resp.DirectManager)

	push := e.sheet.last()
	assert.Equal(t, model.ActionAddUser, push.action)
	assert.Equal(t, "binh", push.data["username"])
	assert.NotContains(t, push.data, "password")
	assert.Contains(t, e.events.types(), events.UserCreated)

	stored, err := e.users.FindByUsername("binh")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("secret1"))
	assert.Equal(t, SeedAdminID, stored.CreatedBy)
}

func TestCreateUserRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, _, err := e.user.CreateUser(ctx, SeedAdminID, &CreateUserRequest{FullName: "X", Username: "an", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = e.user.CreateUser(ctx, SeedAdminID, &CreateUserRequest{FullName: "X", Username: "x", Password: "123"})
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, _, err = e.user.CreateUser(ctx, SeedAdminID, &CreateUserRequest{FullName: "X", Username: "x", Password: "secret1", Role: "boss"})
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, _, err = e.user.CreateUser(ctx, "mgr", &CreateUserRequest{FullName: "X", Username: "x", Password: "secret1"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateUserKeepsRecordWhenSheetFails(t *testing.T) {
	e := newEnv(t)
	e.sheet.setFail(errSheetDown)

	resp, synced, err := e.user.CreateUser(context.Background(), SeedAdminID, &CreateUserRequest{
		FullName: "Bắc Hai", Username: "bac2", Password: "secret1", Role: "Manager", Branch: string(model.BranchNorth),
	})
	require.NoError(t, err)
	assert.Equal(t, SyncQueued, synced)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.Equal(t, access.BoardLabel, resp.DirectManager)

	n, err := e.outbox.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pw := "changed1"

	resp, synced, err := e.user.UpdateUser(ctx, SeedAdminID, "an", &UpdateUserRequest{
		FullName: "Nguyễn Văn An",
		Position: "Trưởng nhóm",
		Password: &pw,
		Role:     "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, SyncSent, synced)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.Equal(t, "an", resp.Username)
	assert.Equal(t, model.ActionUpdateUser, e.sheet.last().action)

	stored, err := e.users.FindByID("an")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword(pw))
	assert.Equal(t, model.BranchHeadOffice, stored.Branch)

	_, _, err = e.user.UpdateUser(ctx, SeedAdminID, "ghost", &UpdateUserRequest{FullName: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllUsersScoped(t *testing.T) {
	e := newEnv(t)

	all, err := e.user.GetAllUsers(SeedAdminID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := e.user.GetAllUsers("mgr")
	require.NoError(t, err)
	ids := make([]string, 0, len(mine))
	for _, u := range mine {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"mgr", "an"}, ids)

	_, err = e.user.GetUserByID("an", "north")
	assert.ErrorIs(t, err, ErrUserNotFound)

	self, err := e.user.GetUserByID("north", "north")
	require.NoError(t, err)
	assert.Equal(t, access.ManagerMissingLabel, self.DirectManager)
}

func TestFilterOptions(t *testing.T) {
	e := newEnv(t)

	admin, err := e.user.FilterOptions(SeedAdminID)
	require.NoError(t, err)
	assert.Equal(t, model.Branches, admin.Branches)
	assert.Len(t, admin.Users, 4)

	mgr, err := e.user.FilterOptions("mgr")
	require.NoError(t, err)
	assert.Empty(t, mgr.Branches)
	assert.Len(t, mgr.Users, 2)

	staff, err := e.user.FilterOptions("an")
	require.NoError(t, err)
	assert.Empty(t, staff.Branches)
	assert.Empty(t, staff.Users)
}
