package handlers

import (
	"errors"
	"time"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CreditHandler struct {
	Credit *services.CreditService
	Repo   *repos.CreditRepo
}

type creditView struct {
	domain.Credit
	DueStatus string `json:"dueStatus"`
}

func withDueStatus(credits []domain.Credit) []creditView {
	today := time.Now().Format("2006-01-02")
	out := make([]creditView, 0, len(credits))
	for _, c := range credits {
		out = append(out, creditView{Credit: c, DueStatus: services.DueStatus(c, today)})
	}
	return out
}

// GET /api/v1/credits
func (h *CreditHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	credits, err := h.Credit.List(u.CompanyName)
	if err != nil {
		applog.Error(c, "credit.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load credits"})
	}
	return c.JSON(withDueStatus(credits))
}

// GET /api/v1/credits/history/:customerId
func (h *CreditHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	custID, ok := validate.ID(c.Params("customerId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing customerId"})
	}
	credits, err := h.Credit.History(u.CompanyName, custID)
	if err != nil {
		applog.Error(c, "credit.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load history"})
	}
	return c.JSON(withDueStatus(credits))
}

// GET /api/v1/credits/:id/items
func (h *CreditHandler) Items(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	items, err := h.Repo.Items(u.CompanyName, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "credit not found"})
	}
	return c.JSON(items)
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

// POST /api/v1/credits/:id/payments
func (h *CreditHandler) Pay(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing id"})
	}
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}

	credit, err := h.Credit.ApplyPayment(u.CompanyName, id, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayment) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid payment amount"})
		}
		applog.Error(c, "credit.pay.fail", err, map[string]any{"credit_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payment failed"})
	}

	applog.Audit(c, "credit.pay", map[string]any{"credit_id": id, "amount": req.Amount, "paid_amount": credit.PaidAmount})
	return c.JSON(credit)
}
