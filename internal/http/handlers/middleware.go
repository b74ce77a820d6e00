package handlers

import (
	"farmstand/internal/authz"
	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AttachCaller resolves the sid cookie to a user and stores it in Locals
// for handlers and the logger. Anonymous requests pass through.
func AttachCaller(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("callerID", u.ID)
			}
		}
		return c.Next()
	}
}

// RequireUser rejects anonymous requests with the generic 404 body.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("user").(*domain.User); !ok {
			applog.Security(c, "access.denied.anonymous", nil)
			return fail(c, fiber.StatusUnauthorized, "login required")
		}
		return c.Next()
	}
}

// caller extracts the authz identity; zero value when anonymous.
func caller(c *fiber.Ctx) authz.Caller {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return authz.Caller{ID: u.ID, Role: u.Role}
	}
	return authz.Caller{}
}

// ensureSID guarantees a session cookie so login can bind to it.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}
