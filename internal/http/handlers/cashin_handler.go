package handlers

import (
	"errors"

	applog "tillpoint/internal/log"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CashInHandler struct {
	CashIn *services.CashInService
	Users  *repos.UserRepo
}

// GET /api/v1/cashins/expected?branch=...
// Branch summary plus the eligible-teller list for today.
func (h *CashInHandler) Expected(c *fiber.Ctx) error {
	u := currentUser(c)
	branch := c.Query("branch")

	branches := []string{}
	if branch != "" {
		branches = append(branches, branch)
	} else {
		var err error
		branches, err = h.Users.Branches(u.CompanyName)
		if err != nil {
			applog.Error(c, "cashin.expected.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load branches"})
		}
	}

	type branchExpected struct {
		Branch   string  `json:"branch"`
		Expected float64 `json:"expected"`
	}
	summary := make([]branchExpected, 0, len(branches))
	for _, b := range branches {
		exp, err := h.CashIn.ExpectedByBranch(u.CompanyName, b)
		if err != nil {
			applog.Error(c, "cashin.expected.fail", err, map[string]any{"branch": b})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute expected cash"})
		}
		summary = append(summary, branchExpected{Branch: b, Expected: exp})
	}

	tellers, err := h.CashIn.EligibleTellers(u.CompanyName, branch)
	if err != nil {
		applog.Error(c, "cashin.tellers.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load tellers"})
	}

	return c.JSON(fiber.Map{"branches": summary, "tellers": tellers})
}

type cashInRequest struct {
	TellerID string  `json:"tellerId"`
	Cash     float64 `json:"cash"`
	Bank     float64 `json:"bank"`
	Credit   float64 `json:"credit"`
}

// POST /api/v1/cashins
func (h *CashInHandler) Record(c *fiber.Ctx) error {
	u := currentUser(c)

	var req cashInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	tid, ok := validate.ID(req.TellerID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing tellerId"})
	}
	teller, err := h.Users.ByID(tid)
	if err != nil || teller.CompanyName != u.CompanyName {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "teller not found"})
	}

	ci, err := h.CashIn.Record(u, *teller, req.Cash, req.Bank, req.Credit)
	if err != nil {
		if errors.Is(err, services.ErrNoAmounts) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "cashin.record.fail", err, map[string]any{"teller": tid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not record cash in"})
	}

	applog.Audit(c, "cashin.record", map[string]any{
		"teller": tid, "cash": req.Cash, "expected": ci.ExpectedCashIn, "status": ci.Status,
	})
	return c.Status(fiber.StatusCreated).JSON(ci)
}

// GET /api/v1/cashins/today
func (h *CashInHandler) Today(c *fiber.Ctx) error {
	u := currentUser(c)
	list, err := h.CashIn.Today(u.CompanyName)
	if err != nil {
		applog.Error(c, "cashin.today.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cash ins"})
	}
	return c.JSON(list)
}
