package server

import (
	"errors"

	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseParamID extracts a route parameter as a positive uint. A value that is
// not a positive integer cannot name any existing resource, so it reports the
// same not-found response as an unknown id rather than leaking a parse error.
// On failure it writes the response and returns errResponseWritten; callers
// should check: if err != nil { return nil }.
func parseParamID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resource, c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError maps an application error to its HTTP status and writes the
// standardized error body.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "VALIDATION_ERROR", "ALREADY_LIKED", "NOT_LIKED":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "ALREADY_EXISTS":
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "request failed",
		"path", c.Path(), "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// currentUserID returns the authenticated user's id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
