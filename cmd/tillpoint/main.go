package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tillpoint/internal/config"
	"tillpoint/internal/domain"
	"tillpoint/internal/http/handlers"
	applog "tillpoint/internal/log"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and keep internals out of the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, authSvc)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)
	app.Get("/me", authH.Me)

	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", handlers.RequirePerm(authSvc, domain.OpSell), deps.ProductHandler.List)
	api.Get("/products/low-stock", handlers.RequirePerm(authSvc, domain.OpManageCatalog), deps.ProductHandler.LowStock)
	api.Post("/products", handlers.RequirePerm(authSvc, domain.OpManageCatalog), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequirePerm(authSvc, domain.OpManageCatalog), deps.ProductHandler.Update)
	api.Post("/products/:id/restock", handlers.RequirePerm(authSvc, domain.OpManageCatalog), deps.ProductHandler.Restock)

	// Customers
	api.Get("/customers", handlers.RequirePerm(authSvc, domain.OpSell), deps.CustomerHandler.List)
	api.Post("/customers", handlers.RequirePerm(authSvc, domain.OpSell), deps.CustomerHandler.Create)

	// Cart & sales (the POS flow)
	api.Get("/cart", handlers.RequirePerm(authSvc, domain.OpSell), deps.CartHandler.View)
	api.Post("/cart", handlers.RequirePerm(authSvc, domain.OpSell), deps.CartHandler.Add)
	api.Delete("/cart/:productId", handlers.RequirePerm(authSvc, domain.OpSell), deps.CartHandler.Remove)
	api.Post("/sales", handlers.RequirePerm(authSvc, domain.OpSell), deps.SaleHandler.Submit)
	api.Get("/sales", handlers.RequirePerm(authSvc, domain.OpViewReports), deps.SaleHandler.List)
	api.Get("/sales/:id", handlers.RequirePerm(authSvc, domain.OpSell), deps.SaleHandler.Get)

	// Credit ledger
	api.Get("/credits", handlers.RequirePerm(authSvc, domain.OpApplyCredit), deps.CreditHandler.List)
	api.Get("/credits/history/:customerId", handlers.RequirePerm(authSvc, domain.OpApplyCredit), deps.CreditHandler.History)
	api.Get("/credits/:id/items", handlers.RequirePerm(authSvc, domain.OpApplyCredit), deps.CreditHandler.Items)
	api.Post("/credits/:id/payments", handlers.RequirePerm(authSvc, domain.OpApplyCredit), deps.CreditHandler.Pay)

	// Cash-in reconciliation
	api.Get("/cashins/expected", handlers.RequirePerm(authSvc, domain.OpRecordCashIn), deps.CashInHandler.Expected)
	api.Get("/cashins/today", handlers.RequirePerm(authSvc, domain.OpRecordCashIn), deps.CashInHandler.Today)
	api.Post("/cashins", handlers.RequirePerm(authSvc, domain.OpRecordCashIn), deps.CashInHandler.Record)

	// Drawings & expenses
	api.Get("/drawings", handlers.RequirePerm(authSvc, domain.OpRecordDrawing), deps.DrawingHandler.List)
	api.Post("/drawings", handlers.RequirePerm(authSvc, domain.OpRecordDrawing), deps.DrawingHandler.Record)
	api.Get("/expenses", handlers.RequirePerm(authSvc, domain.OpViewReports), deps.ExpenseHandler.List)
	api.Post("/expenses", handlers.RequirePerm(authSvc, domain.OpViewReports), deps.ExpenseHandler.Create)

	// Analytics
	api.Get("/analytics/summary", handlers.RequirePerm(authSvc, domain.OpViewReports), deps.AnalyticsHandler.Summary)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
