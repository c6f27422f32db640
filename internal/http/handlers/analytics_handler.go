package handlers

import (
	"time"

	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

// GET /api/v1/analytics/summary?from=YYYY-MM-DD&to=YYYY-MM-DD&branch=...
// Defaults to the last 30 days.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	u := currentUser(c)

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30).Format("2006-01-02")
	to := now.AddDate(0, 0, 1).Format("2006-01-02")
	if v, ok := validate.Date(c.Query("from")); ok {
		from = v
	}
	if v, ok := validate.Date(c.Query("to")); ok {
		to = v
	}

	summary, err := h.Analytics.Summarize(u.CompanyName, c.Query("branch"), from, to)
	if err != nil {
		applog.Error(c, "analytics.summary.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute summary"})
	}
	return c.JSON(summary)
}
