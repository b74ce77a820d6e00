package handlers

import (
	"farmstand/internal/domain"
	applog "farmstand/internal/log"
	"farmstand/internal/services"
	"farmstand/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// POST /api/v1/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	email, okE := validate.Email(req.Email)
	name, okN := validate.Name(req.Name)
	if !okE || !okN {
		applog.Security(c, "validation.fail", map[string]any{"field": "email/name"})
		return fail(c, fiber.StatusBadRequest, "invalid email or name")
	}
	if !validate.Password(req.Password) {
		return fail(c, fiber.StatusBadRequest, "password must be 8-40 chars with upper, lower, digit and symbol")
	}

	u, err := h.Auth.Register(email, name, req.Password, req.Role, req.Phone)
	if err != nil {
		return failErr(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID, "role": u.Role})
	return ok(c, fiber.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, u)
}

// POST /api/v1/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	applog.Audit(c, "auth.logout", nil)
	return ok(c, fiber.StatusOK, fiber.Map{"ok": true})
}

// GET /api/v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return fail(c, fiber.StatusUnauthorized, "login required")
	}
	return ok(c, fiber.StatusOK, u)
}

type profileReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PUT /api/v1/me
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	name, okN := validate.Name(req.Name)
	if !okN {
		return fail(c, fiber.StatusBadRequest, "invalid name")
	}
	u, err := h.Auth.UpdateProfile(caller(c), name, req.Phone)
	if err != nil {
		return failErr(c, "auth.profile", err)
	}
	applog.Audit(c, "auth.profile", nil)
	return ok(c, fiber.StatusOK, u)
}

// GET /api/v1/users/:id
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusNotFound, "not found")
	}
	u, err := h.Auth.User(id)
	if err != nil {
		return failErr(c, "users.get", err)
	}
	return ok(c, fiber.StatusOK, u)
}
