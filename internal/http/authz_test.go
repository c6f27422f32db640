package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tillpoint/internal/domain"
	"tillpoint/internal/http/handlers"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

// Minimal app for capability-gate testing: one route per operation,
// each answering 200 when the gate lets the request through.
func newAuthzApp(t *testing.T) (*fiber.App, *repos.UserRepo) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role,branch,company_name) VALUES
	    ('u-teller','teller@demo.test','Thandi','x','TELLER','Main Street','Demo Trading'),
	    ('u-admin','owner@demo.test','Owner','x','ADMIN','','Demo Trading')`); err != nil {
		t.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/sales", handlers.RequirePerm(authSvc, domain.OpSell), ok)
	app.Get("/cashins", handlers.RequirePerm(authSvc, domain.OpRecordCashIn), ok)
	app.Get("/reports", handlers.RequirePerm(authSvc, domain.OpViewReports), ok)
	return app, userRepo
}

func get(t *testing.T, app *fiber.App, path, sid string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestRequirePerm_AnonymousIsUnauthorized(t *testing.T) {
	app, _ := newAuthzApp(t)
	for _, path := range []string{"/sales", "/cashins", "/reports"} {
		if code := get(t, app, path, ""); code != http.StatusUnauthorized {
			t.Errorf("%s: want 401 for anonymous, got %d", path, code)
		}
	}
}

func TestRequirePerm_TellerCapabilities(t *testing.T) {
	app, userRepo := newAuthzApp(t)
	if err := userRepo.BindSession("sid-teller", "u-teller"); err != nil {
		t.Fatal(err)
	}

	if code := get(t, app, "/sales", "sid-teller"); code != http.StatusOK {
		t.Errorf("teller must be able to sell, got %d", code)
	}
	// Reconciliation and reports are admin operations.
	for _, path := range []string{"/cashins", "/reports"} {
		if code := get(t, app, path, "sid-teller"); code != http.StatusForbidden {
			t.Errorf("%s: want 403 for teller, got %d", path, code)
		}
	}
}

func TestRequirePerm_AdminCapabilities(t *testing.T) {
	app, userRepo := newAuthzApp(t)
	if err := userRepo.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/sales", "/cashins", "/reports"} {
		if code := get(t, app, path, "sid-admin"); code != http.StatusOK {
			t.Errorf("%s: want 200 for admin, got %d", path, code)
		}
	}
}

func TestRequirePerm_StaleSessionIsUnauthorized(t *testing.T) {
	app, userRepo := newAuthzApp(t)
	if err := userRepo.BindSession("sid-gone", "u-admin"); err != nil {
		t.Fatal(err)
	}
	if err := userRepo.UnbindSession("sid-gone"); err != nil {
		t.Fatal(err)
	}
	if code := get(t, app, "/reports", "sid-gone"); code != http.StatusUnauthorized {
		t.Errorf("want 401 for unbound session, got %d", code)
	}
}
