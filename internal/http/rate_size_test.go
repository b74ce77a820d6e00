package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"farmstand/internal/http/handlers"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

// Minimal app with real routes plus the production rate/size/CSRF limits.
func newGuardedApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	app := fiber.New()
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())
	app.Use(handlers.AttachCaller(authSvc))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed"})
		},
	}))

	deps := handlers.NewDeps(db, authSvc)
	api := app.Group("/api/v1")
	api.Get("/products", limiter.New(limiter.Config{Max: 3, Expiration: time.Second}), deps.ProductHandler.Search)
	api.Post("/favorites", handlers.RequireUser(), deps.FavoriteHandler.Add)
	return app
}

func TestSearchRateLimit(t *testing.T) {
	app := newGuardedApp(t)

	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products?q=kale", nil))
		if err != nil {
			t.Fatal(err)
		}
		if i < 3 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 3 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

func TestCSRFRequiredOnWrites(t *testing.T) {
	app := newGuardedApp(t)

	// No token at all: the write is refused with the JSON denial body.
	resp, err := app.Test(jsonReq("POST", "/api/v1/favorites", map[string]string{"farmerId": "f-greenacre"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing token: want 403, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "security check failed" {
		t.Fatalf("csrf denial body: %v", body)
	}

	// Reads hand out a token that unlocks writes.
	getResp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(getResp, "csrf_")
	if tok == "" {
		t.Fatal("csrf cookie missing on read")
	}
	req := jsonReq("POST", "/api/v1/favorites", map[string]string{"farmerId": "f-greenacre"})
	req.Header.Set("X-CSRF-Token", tok)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	// Past CSRF, the anonymous caller is stopped by RequireUser instead.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("with token: want 401 from RequireUser, got %d", resp.StatusCode)
	}
}

func TestBodySizeLimit(t *testing.T) {
	app := newGuardedApp(t)

	getResp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(getResp, "csrf_")

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/v1/favorites", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", tok)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := app.Test(req)
	// Fiber may surface the overflow as a transport error instead of a
	// response; both count.
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}
