package handlers

import (
	"errors"
	"time"

	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DrawingHandler struct {
	Drawing *services.DrawingService
}

type drawingRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Date      string `json:"date"` // YYYY-MM-DD, defaults to today
}

// POST /api/v1/drawings
func (h *DrawingHandler) Record(c *fiber.Ctx) error {
	u := currentUser(c)

	var req drawingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	} else if d, ok := validate.Date(req.Date); ok {
		req.Date = d
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	d, err := h.Drawing.Record(u, pid, req.Quantity, req.Reason, req.Date)
	if err != nil {
		var stockErr *services.InsufficientStockError
		if errors.As(err, &stockErr) || errors.Is(err, services.ErrBadDrawQty) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "drawing.record.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not record drawing"})
	}

	applog.Audit(c, "drawing.record", map[string]any{"drawing_id": d.ID, "product": pid, "qty": req.Quantity})
	return c.Status(fiber.StatusCreated).JSON(d)
}

// GET /api/v1/drawings
func (h *DrawingHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	list, err := h.Drawing.List(u.CompanyName)
	if err != nil {
		applog.Error(c, "drawing.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load drawings"})
	}
	return c.JSON(list)
}
