package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tillpoint/internal/http/handlers"
	"tillpoint/internal/repos"
	"tillpoint/internal/services"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Use(requestid.New())
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)
	app.Get("/me", authH.Me)
	return app
}

func postLogin(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func sidCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newAuthApp(t)
	resp := postLogin(t, app, "owner@demo.test", "Wrong-Pass9!")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	app := newAuthApp(t)
	resp := postLogin(t, app, "nobody@demo.test", "Passw0rd!")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

func TestLogin_SuccessBindsSession(t *testing.T) {
	app := newAuthApp(t)
	resp := postLogin(t, app, "thandi@demo.test", "Passw0rd!")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var body struct {
		Role    string `json:"role"`
		Branch  string `json:"branch"`
		Company string `json:"company"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Role != "TELLER" || body.Branch != "Main Street" || body.Company != "Demo Trading" {
		t.Fatalf("bad login payload: %+v", body)
	}

	sid := sidCookie(resp)
	if sid == nil || sid.Value == "" {
		t.Fatal("login must set the sid cookie")
	}

	// The cookie now identifies the user.
	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid.Value})
	me, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if me.StatusCode != http.StatusOK {
		t.Fatalf("/me with session: want 200, got %d", me.StatusCode)
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	app := newAuthApp(t)
	resp := postLogin(t, app, "owner@demo.test", "Passw0rd!")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	sid := sidCookie(resp)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid.Value})
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}

	me := httptest.NewRequest("GET", "/me", nil)
	me.AddCookie(&http.Cookie{Name: "sid", Value: sid.Value})
	after, err := app.Test(me)
	if err != nil {
		t.Fatal(err)
	}
	if after.StatusCode != http.StatusUnauthorized {
		t.Fatalf("session must be dead after logout, got %d", after.StatusCode)
	}
}
