package handlers

import (
	"errors"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	Sale *services.SaleService
	Repo *repos.SaleRepo
}

type saleSubmitRequest struct {
	PaymentType    string  `json:"paymentType"`
	CustomerID     string  `json:"customerId"`
	AmountPaid     float64 `json:"amountPaid"`
	DueDate        string  `json:"dueDate"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

// POST /api/v1/sales
func (h *SaleHandler) Submit(c *fiber.Ctx) error {
	u := currentUser(c)
	sid := ensureSID(c)

	var req saleSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	pt := domain.PaymentType(req.PaymentType)
	if !pt.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "paymentType must be Cash, Bank or Credit"})
	}
	if req.DueDate != "" {
		d, ok := validate.Date(req.DueDate)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dueDate must be YYYY-MM-DD"})
		}
		req.DueDate = d
	}

	saleID, err := h.Sale.Submit(sid, u, services.SubmitRequest{
		PaymentType:    pt,
		CustomerID:     req.CustomerID,
		AmountPaid:     req.AmountPaid,
		DueDate:        req.DueDate,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.As(err, &stockErr),
			errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrCustomerRequired),
			errors.Is(err, services.ErrCreditScoreTooLow),
			errors.Is(err, services.ErrDueDateRequired),
			errors.Is(err, services.ErrAmountPaidTooLow):
			applog.Info(c, "sale.submit.reject", map[string]any{"teller": u.ID, "error": err.Error()})
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "sale.submit.fail", err, map[string]any{"teller": u.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save sale"})
	}

	applog.Audit(c, "sale.submit", map[string]any{"sale_id": saleID, "teller": u.ID, "payment_type": req.PaymentType})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": saleID})
}

// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	s, items, err := h.Repo.Get(u.CompanyName, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sale not found"})
	}
	return c.JSON(fiber.Map{"sale": s, "items": items})
}

// GET /api/v1/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	sales, err := h.Repo.ListLatest(u.CompanyName, c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "sale.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load sales"})
	}
	return c.JSON(sales)
}
