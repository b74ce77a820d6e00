package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"farmstand/internal/config"
	"farmstand/internal/http/handlers"
	applog "farmstand/internal/log"
	"farmstand/internal/repos"
	"farmstand/internal/services"
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

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly body; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.AttachCaller(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed"})
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, authSvc)
	api := app.Group("/api/v1")

	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	})

	// Auth
	api.Post("/register", loginLimiter, deps.AuthHandler.Register)
	api.Post("/login", loginLimiter, deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Get("/me", deps.AuthHandler.Me)
	api.Put("/me", handlers.RequireUser(), deps.AuthHandler.UpdateMe)
	api.Get("/users/:id", handlers.RequireUser(), deps.AuthHandler.GetUser)

	// Public browse; /farmers/me must register before the :id route
	api.Get("/farmers", deps.FarmerHandler.List)
	api.Get("/farmers/me", handlers.RequireUser(), deps.FarmerHandler.Mine)
	api.Get("/farmers/:id", deps.FarmerHandler.Get)
	api.Get("/farmers/:id/products", deps.ProductHandler.ByFarmer)
	api.Get("/farmers/:id/reviews", deps.ReviewHandler.ByFarmer)
	api.Get("/products", deps.ProductHandler.Search)
	api.Get("/products/:id", deps.ProductHandler.Get)

	// Farmer-side management
	api.Post("/farmers", handlers.RequireUser(), deps.FarmerHandler.Create)
	api.Put("/farmers/:id", handlers.RequireUser(), deps.FarmerHandler.Update)
	api.Post("/products", handlers.RequireUser(), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequireUser(), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireUser(), deps.ProductHandler.Delete)

	// Orders
	api.Post("/orders", handlers.RequireUser(), deps.OrderHandler.Place)
	api.Get("/orders", handlers.RequireUser(), deps.OrderHandler.History)
	api.Get("/orders/:id", handlers.RequireUser(), deps.OrderHandler.Get)
	api.Post("/orders/:id/status", handlers.RequireUser(), deps.OrderHandler.UpdateStatus)
	api.Get("/orders/:id/events", handlers.RequireUser(), deps.OrderHandler.Events)
	api.Post("/orders/:id/events", handlers.RequireUser(), deps.OrderHandler.AddEvent)

	// Reviews
	api.Post("/reviews", handlers.RequireUser(), deps.ReviewHandler.Create)
	api.Put("/reviews/:id", handlers.RequireUser(), deps.ReviewHandler.Update)

	// Favorites
	api.Get("/favorites", handlers.RequireUser(), deps.FavoriteHandler.List)
	api.Post("/favorites", handlers.RequireUser(), deps.FavoriteHandler.Add)
	api.Delete("/favorites/:farmerID", handlers.RequireUser(), deps.FavoriteHandler.Remove)

	// Messages
	api.Get("/messages", handlers.RequireUser(), deps.MessageHandler.Inbox)
	api.Get("/messages/:userID", handlers.RequireUser(), deps.MessageHandler.Thread)
	api.Post("/messages", handlers.RequireUser(), deps.MessageHandler.Send)
	api.Post("/messages/:id/read", handlers.RequireUser(), deps.MessageHandler.MarkRead)

	// Notifications
	api.Get("/notifications", handlers.RequireUser(), deps.NotificationHandler.List)
	api.Post("/notifications/:id/read", handlers.RequireUser(), deps.NotificationHandler.MarkRead)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
