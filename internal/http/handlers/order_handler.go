package handlers

import (
	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/repos"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderReq struct {
	FarmerID        string            `json:"farmerId"`
	DeliveryMethod  string            `json:"deliveryMethod"`
	DeliveryAddress string            `json:"deliveryAddress"`
	RequestedDate   string            `json:"requestedDate"`
	Notes           string            `json:"notes"`
	Items           []repos.LineInput `json:"items"`
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	farmerID, okID := validate.ID(req.FarmerID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid farmer id")
	}
	method := req.DeliveryMethod
	if method != "" {
		var okM bool
		if method, okM = validate.DeliveryMethod(method); !okM {
			return fail(c, fiber.StatusBadRequest, "delivery method must be pickup or delivery")
		}
	}

	orderID, total, err := h.Orders.Place(caller(c), repos.PlaceInput{
		FarmerID:        farmerID,
		DeliveryMethod:  method,
		DeliveryAddress: req.DeliveryAddress,
		RequestedDate:   req.RequestedDate,
		Notes:           req.Notes,
		Items:           req.Items,
	})
	if err != nil {
		applog.Security(c, "orders.place.fail", map[string]any{"error": err.Error()})
		return failErr(c, "orders.place", err)
	}
	applog.Audit(c, "orders.place", map[string]any{"order_id": orderID, "total": total})
	return ok(c, fiber.StatusCreated, fiber.Map{"orderId": orderID, "totalAmount": total})
}

// GET /api/v1/orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.History(caller(c))
	if err != nil {
		return failErr(c, "orders.history", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	o, items, err := h.Orders.Get(caller(c), id)
	if err != nil {
		return failErr(c, "orders.get", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"order": o, "items": items})
}

type statusReq struct {
	Status string `json:"status"`
}

// POST /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	status, okS := validate.Status(req.Status)
	if !okS {
		return fail(c, fiber.StatusBadRequest, "unknown status value")
	}
	if err := h.Orders.Transition(caller(c), id, status); err != nil {
		return failErr(c, "orders.status", err)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": status})
	return ok(c, fiber.StatusOK, fiber.Map{"orderId": id, "status": status})
}

// GET /api/v1/orders/:id/events
func (h *OrderHandler) Events(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	events, err := h.Orders.Events(caller(c), id)
	if err != nil {
		return failErr(c, "orders.events", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"events": events})
}

type eventReq struct {
	EventType string  `json:"eventType"` // note | location_update
	Note      string  `json:"note"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// POST /api/v1/orders/:id/events
func (h *OrderHandler) AddEvent(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var req eventReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	switch req.EventType {
	case domain.EventNote:
		note, okN := validate.Content(req.Note, 1000)
		if !okN {
			return fail(c, fiber.StatusBadRequest, "note must be 1-1000 characters")
		}
		if err := h.Orders.AddNote(caller(c), id, note); err != nil {
			return failErr(c, "orders.note", err)
		}
	case domain.EventLocationUpdate:
		if !validate.LatLng(req.Lat, req.Lng) {
			return fail(c, fiber.StatusBadRequest, "invalid coordinates")
		}
		if err := h.Orders.AddLocation(caller(c), id, req.Lat, req.Lng); err != nil {
			return failErr(c, "orders.location", err)
		}
	default:
		return fail(c, fiber.StatusBadRequest, "eventType must be note or location_update")
	}

	applog.Audit(c, "orders.event", map[string]any{"order_id": id, "type": req.EventType})
	return ok(c, fiber.StatusCreated, fiber.Map{"ok": true})
}
