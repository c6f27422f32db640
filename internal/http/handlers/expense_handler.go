package handlers

import (
	"strings"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/repos"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	Expenses *repos.ExpenseRepo
}

// GET /api/v1/expenses
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	list, err := h.Expenses.List(u.CompanyName)
	if err != nil {
		applog.Error(c, "expense.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load expenses"})
	}
	return c.JSON(list)
}

type expenseRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"type"`
	Notes  string  `json:"notes"`
}

// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Amount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expense needs a name and a non-negative amount"})
	}

	e := domain.Expense{
		ID:          uuid.NewString(),
		CompanyName: u.CompanyName,
		Branch:      u.Branch,
		Name:        req.Name,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Notes:       req.Notes,
	}
	if err := h.Expenses.Insert(e); err != nil {
		applog.Error(c, "expense.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save expense"})
	}
	applog.Audit(c, "expense.create", map[string]any{"expense_id": e.ID, "amount": e.Amount})
	return c.Status(fiber.StatusCreated).JSON(e)
}
