package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"babyboss-sales/internal/access"
	"babyboss-sales/internal/middleware"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/report"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/service"
	"babyboss-sales/internal/sheets"
	"babyboss-sales/pkg/jwt"
	"babyboss-sales/pkg/validator"
)

// Warnings returned with a saved record the sheet does not have yet.
var syncWarnings = map[service.SyncOutcome]string{
	service.SyncQueued:   "Saved locally; the sheet sync failed and will be retried",
	service.SyncDisabled: "Saved locally; sheet sync is not configured on this server",
	service.SyncDropped:  "Saved locally; the sheet sync failed and could not be queued, run a manual sync",
}

var statusByError = []struct {
	err    error
	status int
}{
	{validator.ErrValidation, fiber.StatusBadRequest},
	{report.ErrInvalidRange, fiber.StatusBadRequest},
	{report.ErrInvalidMonth, fiber.StatusBadRequest},
	{report.ErrInvalidDate, fiber.StatusBadRequest},
	{service.ErrEmptyOrder, fiber.StatusBadRequest},
	{service.ErrUnknownPrice, fiber.StatusBadRequest},
	{service.ErrGiftNotAllowed, fiber.StatusBadRequest},
	{service.ErrDepositTooLarge, fiber.StatusBadRequest},
	{service.ErrInvalidOwner, fiber.StatusBadRequest},
	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrSessionTimeout, fiber.StatusUnauthorized},
	{service.ErrSessionReplaced, fiber.StatusUnauthorized},
	{jwt.ErrInvalidToken, fiber.StatusUnauthorized},
	{service.ErrForbidden, fiber.StatusForbidden},
	{report.ErrAnalysisForbidden, fiber.StatusForbidden},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrCustomerNotFound, fiber.StatusNotFound},
	{service.ErrOrderNotFound, fiber.StatusNotFound},
	{service.ErrUsernameTaken, fiber.StatusConflict},
	{sheets.ErrRemote, fiber.StatusBadGateway},
	{sheets.ErrTransport, fiber.StatusBadGateway},
	{repository.ErrInvalidRecord, fiber.StatusBadGateway},
	{service.ErrSyncDisabled, fiber.StatusServiceUnavailable},
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// saved answers a mutation. A record the sheet has not accepted carries a
// warning saying whether it will be retried.
func saved(c *fiber.Ctx, status int, message string, data any, outcome service.SyncOutcome) error {
	body := fiber.Map{
		"message": message,
		"data":    data,
		"synced":  outcome.Sent(),
	}
	if w, ok := syncWarnings[outcome]; ok {
		body["warning"] = w
		body["sync"] = string(outcome)
	}
	return c.Status(status).JSON(body)
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.LocalUserID).(string)
	return id
}

// reportFilter reads the branch and userId query parameters.
func reportFilter(c *fiber.Ctx) access.Filter {
	return access.Filter{
		Branch: model.Branch(c.Query("branch")),
		UserID: c.Query("userId"),
	}
}
