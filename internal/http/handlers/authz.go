package handlers

import (
	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// currentUser pulls the session user the sid middleware stored.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// RequirePerm gates a route on the role capability table; there are no
// role string comparisons in the handlers themselves.
func RequirePerm(auth *services.AuthService, op string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if !u.Can(op) {
			applog.Security(c, "access.denied", map[string]any{"op": op, "user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		c.Locals("user", u)
		c.Locals("company", u.CompanyName)
		return c.Next()
	}
}
