package handlers

import (
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	Messages *services.MessageService
}

// GET /api/v1/messages
func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	msgs, err := h.Messages.Inbox(caller(c))
	if err != nil {
		return failErr(c, "messages.inbox", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"messages": msgs})
}

// GET /api/v1/messages/:userID
func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	otherID, okID := validate.ID(c.Params("userID"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	msgs, err := h.Messages.Thread(caller(c), otherID)
	if err != nil {
		return failErr(c, "messages.thread", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"messages": msgs})
}

type messageReq struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// POST /api/v1/messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req messageReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	recipientID, okID := validate.ID(req.RecipientID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid recipient")
	}
	content, okC := validate.Content(req.Content, 2000)
	if !okC {
		return fail(c, fiber.StatusBadRequest, "content must be 1-2000 characters")
	}
	m, err := h.Messages.Send(caller(c), recipientID, content)
	if err != nil {
		return failErr(c, "messages.send", err)
	}
	applog.Audit(c, "messages.send", map[string]any{"message_id": m.ID, "recipient": recipientID})
	return ok(c, fiber.StatusCreated, m)
}

// POST /api/v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Messages.MarkRead(caller(c), id); err != nil {
		return failErr(c, "messages.read", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
