package handlers

import (
	"strconv"

	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FarmerHandler struct {
	Catalog *services.CatalogService
}

type farmerReq struct {
	FarmName         string  `json:"farmName"`
	Description      string  `json:"description"`
	Address          string  `json:"address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	DeliveryRadiusKm float64 `json:"deliveryRadiusKm"`
	OffersPickup     bool    `json:"offersPickup"`
	OffersDelivery   bool    `json:"offersDelivery"`
	Practices        string  `json:"practices"`
	Certifications   string  `json:"certifications"`
}

func (req *farmerReq) toProfile() (*domain.FarmerProfile, bool) {
	name, okN := validate.Name(req.FarmName)
	if !okN || !validate.LatLng(req.Lat, req.Lng) || req.DeliveryRadiusKm < 0 {
		return nil, false
	}
	return &domain.FarmerProfile{
		FarmName:         name,
		Description:      req.Description,
		Address:          req.Address,
		Lat:              req.Lat,
		Lng:              req.Lng,
		DeliveryRadiusKm: req.DeliveryRadiusKm,
		OffersPickup:     req.OffersPickup,
		OffersDelivery:   req.OffersDelivery,
		Practices:        req.Practices,
		Certifications:   req.Certifications,
	}, true
}

// GET /api/v1/farmers?lat=&lng=
func (h *FarmerHandler) List(c *fiber.Ctx) error {
	lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng"), 64)
	farmers, err := h.Catalog.FarmersNear(lat, lng)
	if err != nil {
		return failErr(c, "farmers.list", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"farmers": farmers})
}

// GET /api/v1/farmers/me
func (h *FarmerHandler) Mine(c *fiber.Ctx) error {
	f, err := h.Catalog.OwnProfile(caller(c))
	if err != nil {
		return failErr(c, "farmers.mine", err)
	}
	return ok(c, fiber.StatusOK, f)
}

// GET /api/v1/farmers/:id
func (h *FarmerHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	f, err := h.Catalog.Farmer(id)
	if err != nil {
		return failErr(c, "farmers.get", err)
	}
	return ok(c, fiber.StatusOK, f)
}

// POST /api/v1/farmers
func (h *FarmerHandler) Create(c *fiber.Ctx) error {
	var req farmerReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	p, okP := req.toProfile()
	if !okP {
		applog.Security(c, "validation.fail", map[string]any{"field": "farmer"})
		return fail(c, fiber.StatusBadRequest, "invalid farm profile")
	}
	created, err := h.Catalog.CreateProfile(caller(c), p)
	if err != nil {
		return failErr(c, "farmers.create", err)
	}
	applog.Audit(c, "farmers.create", map[string]any{"farmer_id": created.ID})
	return ok(c, fiber.StatusCreated, created)
}

// PUT /api/v1/farmers/:id
func (h *FarmerHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var req farmerReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	p, okP := req.toProfile()
	if !okP {
		return fail(c, fiber.StatusBadRequest, "invalid farm profile")
	}
	p.ID = id
	if err := h.Catalog.UpdateProfile(caller(c), p); err != nil {
		return failErr(c, "farmers.update", err)
	}
	applog.Audit(c, "farmers.update", map[string]any{"farmer_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
