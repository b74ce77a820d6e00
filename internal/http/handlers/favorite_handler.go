package handlers

import (
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

// GET /api/v1/favorites
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favorites, err := h.Favorites.List(caller(c))
	if err != nil {
		return failErr(c, "favorites.list", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"favorites": favorites})
}

type favoriteReq struct {
	FarmerID string `json:"farmerId"`
}

// POST /api/v1/favorites
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	var req favoriteReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	farmerID, okID := validate.ID(req.FarmerID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid farmer id")
	}
	if err := h.Favorites.Add(caller(c), farmerID); err != nil {
		return failErr(c, "favorites.add", err)
	}
	applog.Audit(c, "favorites.add", map[string]any{"farmer_id": farmerID})
	return ok(c, fiber.StatusCreated, fiber.Map{"ok": true})
}

// DELETE /api/v1/favorites/:farmerID
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	farmerID, okID := validate.ID(c.Params("farmerID"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Favorites.Remove(caller(c), farmerID); err != nil {
		return failErr(c, "favorites.remove", err)
	}
	applog.Audit(c, "favorites.remove", map[string]any{"farmer_id": farmerID})
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
