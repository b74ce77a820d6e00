package handlers

import (
	"database/sql"
	"errors"

	"farmstand/internal/authz"
	applog "farmstand/internal/log"
	"farmstand/internal/repos"
	"farmstand/internal/services"

	"github.com/gofiber/fiber/v2"
)

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(data)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// failErr maps service/repo errors onto HTTP statuses. Authorization
// denials and missing rows share the same 404 body so callers cannot tell
// them apart.
func failErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, authz.ErrDenied), errors.Is(err, sql.ErrNoRows):
		applog.Security(c, action+".denied", nil)
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, repos.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "already exists")
	case errors.Is(err, repos.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, "insufficient stock")
	case errors.Is(err, repos.ErrBadTransition):
		return fail(c, fiber.StatusConflict, "illegal status transition")
	case errors.Is(err, repos.ErrOrderClosed):
		return fail(c, fiber.StatusConflict, "order already closed")
	case errors.Is(err, repos.ErrOrderNotCompleted),
		errors.Is(err, repos.ErrFarmerMismatch),
		errors.Is(err, repos.ErrUnavailable),
		errors.Is(err, repos.ErrBelowMinQty),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrBadStatus),
		errors.Is(err, services.ErrBadRating),
		errors.Is(err, services.ErrSelfMessage),
		errors.Is(err, services.ErrNotFarmer),
		errors.Is(err, services.ErrBuyerRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		applog.Error(c, action+".fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "something went wrong")
	}
}
