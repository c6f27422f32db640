package handlers

import (
	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?q=...
func (h *ProductHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	prods, err := h.Catalog.Products(u.CompanyName, c.Query("q"))
	if err != nil {
		applog.Error(c, "product.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(prods)
}

// GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	u := currentUser(c)
	prods, err := h.Catalog.LowStock(u.CompanyName)
	if err != nil {
		applog.Error(c, "product.lowstock.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(prods)
}

type productRequest struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Kind              string  `json:"type"`
	UnitPrice         float64 `json:"unitPrice"`
	PurchasePrice     float64 `json:"purchasePrice"`
	UnitPurchasePrice float64 `json:"unitPurchasePrice"`
	Qty               int     `json:"qty"`
	MinQty            int     `json:"minQty"`
	MaxQty            int     `json:"maxQty"`
	AvailableValue    float64 `json:"availableValue"`
	Unit              string  `json:"unit"`
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	p, err := h.Catalog.CreateProduct(domain.Product{
		ID:                req.ID,
		CompanyName:       u.CompanyName,
		Name:              req.Name,
		Kind:              req.Kind,
		UnitPrice:         req.UnitPrice,
		PurchasePrice:     req.PurchasePrice,
		UnitPurchasePrice: req.UnitPurchasePrice,
		Qty:               req.Qty,
		MinQty:            req.MinQty,
		MaxQty:            req.MaxQty,
		AvailableValue:    req.AvailableValue,
		Unit:              req.Unit,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if err := h.Catalog.UpdateProduct(domain.Product{
		ID:                id,
		CompanyName:       u.CompanyName,
		Name:              req.Name,
		Kind:              req.Kind,
		UnitPrice:         req.UnitPrice,
		PurchasePrice:     req.PurchasePrice,
		UnitPurchasePrice: req.UnitPurchasePrice,
		MinQty:            req.MinQty,
		MaxQty:            req.MaxQty,
		AvailableValue:    req.AvailableValue,
		Unit:              req.Unit,
	}); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

type restockRequest struct {
	Qty int `json:"qty"`
}

// POST /api/v1/products/:id/restock
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if err := h.Catalog.Restock(u.CompanyName, id, req.Qty); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "product.restock", map[string]any{"product_id": id, "qty": req.Qty})
	return c.JSON(fiber.Map{"ok": true})
}
