package handlers

import (
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

// GET /api/v1/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	items, err := h.Notifications.List(caller(c))
	if err != nil {
		return failErr(c, "notifications.list", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"notifications": items})
}

// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Notifications.MarkRead(caller(c), id); err != nil {
		return failErr(c, "notifications.read", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
