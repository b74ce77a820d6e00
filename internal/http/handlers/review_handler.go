package handlers

import (
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewReq struct {
	FarmerID string `json:"farmerId"`
	OrderID  string `json:"orderId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// GET /api/v1/farmers/:id/reviews
func (h *ReviewHandler) ByFarmer(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	reviews, err := h.Reviews.ForFarmer(id)
	if err != nil {
		return failErr(c, "reviews.by_farmer", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"reviews": reviews})
}

// POST /api/v1/reviews
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	farmerID, okID := validate.ID(req.FarmerID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid farmer id")
	}
	if !validate.Rating(req.Rating) {
		return fail(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	var orderID *string
	if req.OrderID != "" {
		oid, okO := validate.ID(req.OrderID)
		if !okO {
			return fail(c, fiber.StatusBadRequest, "invalid order id")
		}
		orderID = &oid
	}

	id, err := h.Reviews.Create(caller(c), farmerID, orderID, req.Rating, req.Comment)
	if err != nil {
		return failErr(c, "reviews.create", err)
	}
	applog.Audit(c, "reviews.create", map[string]any{"review_id": id, "farmer_id": farmerID})
	return ok(c, fiber.StatusCreated, fiber.Map{"id": id})
}

// PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if !validate.Rating(req.Rating) {
		return fail(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	if err := h.Reviews.Update(caller(c), id, req.Rating, req.Comment); err != nil {
		return failErr(c, "reviews.update", err)
	}
	applog.Audit(c, "reviews.update", map[string]any{"review_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
