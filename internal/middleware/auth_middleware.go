// Package middleware guards the sales API routes.
package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
	"babyboss-sales/pkg/jwt"
)

// Keys under which RequireAuth stores the caller.
const (
	LocalUserID = "user_id"
	LocalUser   = "user"
)

func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// bearer returns the token of an "Authorization: Bearer <token>" header.
func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth admits a request carrying the token of the caller's current
// session. A newer login elsewhere bumps the stored token version and ends
// older sessions. The user is reloaded on every request, so a role change
// takes effect at once.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return deny(c, fiber.StatusUnauthorized, "Sign in required")
		}
		token, ok := bearer(header)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "Authorization header must be: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Session token is invalid or expired, sign in again")
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Account no longer exists")
		}
		if user.TokenVersion != claims.TokenVersion {
			return deny(c, fiber.StatusUnauthorized, "Signed in on another device, this session has ended")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequirePrivilege admits callers whose role grants code.
func RequirePrivilege(code string) fiber.Handler {
	return RequireAnyPrivilege(code)
}

// RequireAnyPrivilege admits callers whose role grants at least one of codes.
func RequireAnyPrivilege(codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(LocalUser).(*model.User)
		if !ok {
			return deny(c, fiber.StatusForbidden, "No signed-in user on this request")
		}
		if slices.ContainsFunc(codes, user.HasPrivilege) {
			return c.Next()
		}
		return deny(c, fiber.StatusForbidden, "Your role ("+string(user.Role)+") lacks "+strings.Join(codes, " or "))
	}
}
