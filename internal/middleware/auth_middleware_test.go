package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository/memory"
	"babyboss-sales/pkg/jwt"
)

func TestBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
	}
	for _, tt := range tests {
		token, ok := bearer(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestRequireAuthAndPrivilege(t *testing.T) {
	jwt.Configure("middleware-test-secret", time.Hour)

	users := memory.NewUserRepo()
	staff := &model.User{Username: "an", FullName: "An", Role: model.RoleStaff, TokenVersion: "v1"}
	require.NoError(t, users.Create(staff))

	app := fiber.New()
	app.Use(RequireAuth(users))
	app.Get("/customers", RequirePrivilege(model.PrivCustomerView), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserID).(string))
	})
	app.Get("/sync", RequirePrivilege(model.PrivSyncManage), func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Get("/filters", RequireAnyPrivilege(model.PrivSyncManage, model.PrivReportView), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	call := func(path, token string) (int, string) {
		req := httptest.NewRequest("GET", path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}
	errorOf := func(body string) string {
		var out map[string]string
		_ = json.Unmarshal([]byte(body), &out)
		return out["error"]
	}

	token, err := jwt.GenerateToken(staff.ID, staff.Username, staff.FullName, string(staff.Role), "", staff.Privileges(), "v1")
	require.NoError(t, err)

	status, body := call("/customers", token)
	assert.Equal(t, 200, status)
	assert.Equal(t, staff.ID, body)

	status, body = call("/sync", token)
	assert.Equal(t, 403, status)
	assert.Contains(t, errorOf(body), model.PrivSyncManage)

	status, _ = call("/filters", token)
	assert.Equal(t, 200, status)

	status, _ = call("/customers", "")
	assert.Equal(t, 401, status)

	// a newer login bumped the version
	require.NoError(t, users.UpdateTokenVersion(staff.ID, "v2"))
	status, body = call("/customers", token)
	assert.Equal(t, 401, status)
	assert.Contains(t, errorOf(body), "another device")
}
