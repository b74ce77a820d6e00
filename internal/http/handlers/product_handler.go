package handlers

import (
	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productReq struct {
	FarmerID     string  `json:"farmerId"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	AvailableQty int     `json:"availableQty"`
	MinOrderQty  int     `json:"minOrderQty"`
	IsAvailable  bool    `json:"isAvailable"`
}

func (req *productReq) toProduct() (*domain.Product, bool) {
	name, okN := validate.Name(req.Name)
	unit, okU := validate.Unit(req.Unit)
	if !okN || !okU || req.Price < 0 || req.AvailableQty < 0 || req.MinOrderQty < 0 {
		return nil, false
	}
	return &domain.Product{
		FarmerID:     req.FarmerID,
		Name:         name,
		Category:     req.Category,
		Unit:         unit,
		Price:        req.Price,
		AvailableQty: req.AvailableQty,
		MinOrderQty:  req.MinOrderQty,
		IsAvailable:  req.IsAvailable,
	}, true
}

// GET /api/v1/products?q=&category=
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	products, err := h.Catalog.SearchProducts(c.Query("q"), c.Query("category"))
	if err != nil {
		return failErr(c, "products.search", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"products": products})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		return failErr(c, "products.get", err)
	}
	return ok(c, fiber.StatusOK, p)
}

// GET /api/v1/farmers/:id/products
func (h *ProductHandler) ByFarmer(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	products, err := h.Catalog.FarmProducts(id)
	if err != nil {
		return failErr(c, "products.by_farmer", err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"products": products})
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	p, okP := req.toProduct()
	if !okP {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return fail(c, fiber.StatusBadRequest, "invalid product")
	}
	created, err := h.Catalog.CreateProduct(caller(c), p)
	if err != nil {
		return failErr(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": created.ID})
	return ok(c, fiber.StatusCreated, created)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	p, okP := req.toProduct()
	if !okP {
		return fail(c, fiber.StatusBadRequest, "invalid product")
	}
	p.ID = id
	if err := h.Catalog.UpdateProduct(caller(c), p); err != nil {
		return failErr(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Catalog.DeleteProduct(caller(c), id); err != nil {
		return failErr(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}
