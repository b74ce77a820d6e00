package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	applog "farmstand/internal/log"
)

// Unexpected errors must produce a friendly JSON body with no internals.
func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("dsn=postgres://admin:hunter2@db/prod table=users")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	msg, _ := body["error"].(string)
	if msg != "something went wrong, please try again" {
		t.Fatalf("unexpected body: %v", body)
	}
	if strings.Contains(msg, "hunter2") || strings.Contains(msg, "dsn") {
		t.Fatal("error body leaked internals")
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app, _ := newTestApp(t)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/definitely-not-a-route", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("404 should be JSON, got %s", ct)
	}
}
