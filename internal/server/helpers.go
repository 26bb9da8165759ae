package server

import (
	"errors"

	"simmr/internal/models"
	"simmr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the acting user's id as established by the gate.
func (s *Server) currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}

// requireUser resolves the acting user's row. The gate already verified the
// token; this re-checks the row still exists, so a user deleted after token
// issuance is signed out rather than served.
// On failure it redirects to login and returns errResponseWritten.
func (s *Server) requireUser(c *fiber.Ctx) (*models.User, error) {
	id, ok := s.currentUserID(c)
	if !ok {
		_ = c.Redirect("/login", fiber.StatusSeeOther)
		return nil, errResponseWritten
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			s.sessions.ClearCookie(c, session.SessionCookie)
			_ = c.Redirect("/login", fiber.StatusSeeOther)
			return nil, errResponseWritten
		}
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return nil, errResponseWritten
	}
	return user, nil
}

// respondError maps an application error to its HTTP status and writes the
// standard error response.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			status = fiber.StatusBadRequest
		case "UNAUTHORIZED":
			status = fiber.StatusUnauthorized
		case "NOT_FOUND":
			status = fiber.StatusNotFound
		case "CONFLICT":
			status = fiber.StatusConflict
		}
	}

	return models.RespondWithError(c, status, err)
}

// currentOnboarding returns the verified onboarding identity set by the gate.
func (s *Server) currentOnboarding(c *fiber.Ctx) (*session.Onboarding, bool) {
	ob, ok := c.Locals("onboarding").(*session.Onboarding)
	return ob, ok
}
