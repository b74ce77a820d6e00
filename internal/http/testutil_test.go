package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"farmstand/internal/http/handlers"
	"farmstand/internal/repos"
	"farmstand/internal/services"
)

// newTestApp wires the real handlers against a fresh seeded in-memory
// database. Rate limiting and CSRF stay out so tests remain deterministic;
// they get their own targeted tests.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	app.Use(handlers.AttachCaller(authSvc))

	deps := handlers.NewDeps(db, authSvc)
	api := app.Group("/api/v1")

	api.Post("/register", deps.AuthHandler.Register)
	api.Post("/login", deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Get("/me", deps.AuthHandler.Me)
	api.Put("/me", handlers.RequireUser(), deps.AuthHandler.UpdateMe)
	api.Get("/users/:id", handlers.RequireUser(), deps.AuthHandler.GetUser)

	api.Get("/farmers", deps.FarmerHandler.List)
	api.Get("/farmers/me", handlers.RequireUser(), deps.FarmerHandler.Mine)
	api.Get("/farmers/:id", deps.FarmerHandler.Get)
	api.Get("/farmers/:id/products", deps.ProductHandler.ByFarmer)
	api.Get("/farmers/:id/reviews", deps.ReviewHandler.ByFarmer)
	api.Get("/products", deps.ProductHandler.Search)
	api.Get("/products/:id", deps.ProductHandler.Get)

	api.Post("/farmers", handlers.RequireUser(), deps.FarmerHandler.Create)
	api.Put("/farmers/:id", handlers.RequireUser(), deps.FarmerHandler.Update)
	api.Post("/products", handlers.RequireUser(), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequireUser(), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireUser(), deps.ProductHandler.Delete)

	api.Post("/orders", handlers.RequireUser(), deps.OrderHandler.Place)
	api.Get("/orders", handlers.RequireUser(), deps.OrderHandler.History)
	api.Get("/orders/:id", handlers.RequireUser(), deps.OrderHandler.Get)
	api.Post("/orders/:id/status", handlers.RequireUser(), deps.OrderHandler.UpdateStatus)
	api.Get("/orders/:id/events", handlers.RequireUser(), deps.OrderHandler.Events)
	api.Post("/orders/:id/events", handlers.RequireUser(), deps.OrderHandler.AddEvent)

	api.Post("/reviews", handlers.RequireUser(), deps.ReviewHandler.Create)
	api.Put("/reviews/:id", handlers.RequireUser(), deps.ReviewHandler.Update)

	api.Get("/favorites", handlers.RequireUser(), deps.FavoriteHandler.List)
	api.Post("/favorites", handlers.RequireUser(), deps.FavoriteHandler.Add)
	api.Delete("/favorites/:farmerID", handlers.RequireUser(), deps.FavoriteHandler.Remove)

	api.Get("/messages", handlers.RequireUser(), deps.MessageHandler.Inbox)
	api.Get("/messages/:userID", handlers.RequireUser(), deps.MessageHandler.Thread)
	api.Post("/messages", handlers.RequireUser(), deps.MessageHandler.Send)
	api.Post("/messages/:id/read", handlers.RequireUser(), deps.MessageHandler.MarkRead)

	api.Get("/notifications", handlers.RequireUser(), deps.NotificationHandler.List)
	api.Post("/notifications/:id/read", handlers.RequireUser(), deps.NotificationHandler.MarkRead)

	return app, db
}

func jsonReq(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login authenticates a seeded user and returns the bound sid cookie.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/login", map[string]string{
		"email":    email,
		"password": "Passw0rd!",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatalf("login %s: no sid cookie", email)
	}
	return sid
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}
