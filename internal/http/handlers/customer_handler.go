package handlers

import (
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/customers?q=...
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	customers, err := h.Catalog.Customers(u.CompanyName, c.Query("q"))
	if err != nil {
		applog.Error(c, "customer.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load customers"})
	}
	return c.JSON(customers)
}

type customerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IDNumber string `json:"idNumber"`
}

// POST /api/v1/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name"})
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}

	cust, err := h.Catalog.CreateCustomer(u.CompanyName, name, phone, req.IDNumber)
	if err != nil {
		applog.Error(c, "customer.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save customer"})
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}
