package handler

import (
	"babyboss-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	syncService service.SyncService
}

func NewSyncHandler(syncService service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Status reports the last pull and the outbox
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	st, err := h.syncService.Status()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

// Pull refreshes the local store from the sheet
// POST /api/v1/sync/pull
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	res, err := h.syncService.Pull(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sheet pulled", "data": res})
}

// Flush retries queued pushes now
// POST /api/v1/sync/flush
func (h *SyncHandler) Flush(c *fiber.Ctx) error {
	res, err := h.syncService.Flush(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Outbox flushed", "data": res})
}

// Retry re-arms pushes that used up their attempts
// POST /api/v1/sync/retry
func (h *SyncHandler) Retry(c *fiber.Ctx) error {
	n, err := h.syncService.Retry()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Outbox re-armed", "data": fiber.Map{"count": n}})
}
