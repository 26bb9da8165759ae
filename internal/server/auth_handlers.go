package server

import (
	"strings"

	"simmr/internal/models"
	"simmr/internal/service"
	"simmr/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestMagicLink handles POST /api/auth/email
// The response never reveals whether the address has an account.
func (s *Server) RequestMagicLink(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.RequestMagicLink(c.UserContext(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// VerifyMagicLink handles GET /api/auth/email/verify?token=...
// Lands on the feed for known users, onboarding for new addresses, and back
// on the login page for dead tokens.
func (s *Server) VerifyMagicLink(c *fiber.Ctx) error {
	result, err := s.authService.VerifyMagicLink(c.UserContext(), c.Query("token"))
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return c.Redirect("/login?error=invalid_token", fiber.StatusSeeOther)
	}

	if result.User != nil {
		return s.signIn(c, result.User)
	}

	return s.startOnboarding(c, session.Onboarding{
		Email:    result.Email,
		Provider: models.AuthProviderEmail,
	})
}

// GoogleStart handles GET /api/auth/google
func (s *Server) GoogleStart(c *fiber.Ctx) error {
	if s.google == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Google sign-in is not configured"))
	}

	state := uuid.NewString()
	s.sessions.SetStateCookie(c, state)
	return c.Redirect(s.google.AuthURL(state), fiber.StatusSeeOther)
}

// GoogleCallback handles GET /api/auth/google/callback
// Every failure lands back on the login page with an error code rather than
// an API error body, since the caller is a browser mid-redirect.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if s.google == nil {
		return c.Redirect("/login?error=google_invalid", fiber.StatusSeeOther)
	}

	// The state cookie is single-use regardless of outcome.
	expectedState := c.Cookies(session.StateCookie)
	s.sessions.ClearCookie(c, session.StateCookie)

	if c.Query("error") != "" {
		return c.Redirect("/login?error=google_denied", fiber.StatusSeeOther)
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" || expectedState == "" || state != expectedState {
		return c.Redirect("/login?error=google_invalid", fiber.StatusSeeOther)
	}

	gu, err := s.google.Exchange(c.UserContext(), code)
	if err != nil {
		return c.Redirect("/login?error=google_token", fiber.StatusSeeOther)
	}

	result, err := s.authService.CompleteGoogleSignIn(c.UserContext(), gu)
	if err != nil {
		return c.Redirect("/login?error=google_userinfo", fiber.StatusSeeOther)
	}

	if result.User != nil {
		return s.signIn(c, result.User)
	}
	return s.startOnboarding(c, *result.Onboarding)
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.ClearCookie(c, session.SessionCookie)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// CheckUsername handles GET /api/onboarding/username-check?username=...
// Advisory only; the unique index at insert time is authoritative.
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	available, err := s.userService.CheckUsername(c.UserContext(), c.Query("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

// CompleteOnboarding handles POST /api/onboarding
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	ob, ok := s.currentOnboarding(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	var req struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.CompleteOnboarding(c.UserContext(), service.CompleteOnboardingInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Email:       ob.Email,
		Provider:    ob.Provider,
		GoogleID:    ob.GoogleID,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.sessions.ClearCookie(c, session.OnboardingCookie)
	return s.signIn(c, user)
}

// signIn issues a session for the user and redirects into the app.
func (s *Server) signIn(c *fiber.Ctx, user *models.User) error {
	token, err := s.sessions.IssueSession(user.ID, user.Username)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	s.sessions.SetSessionCookie(c, token)
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// startOnboarding issues an onboarding token for a verified identity that
// has no account yet and redirects to profile creation.
func (s *Server) startOnboarding(c *fiber.Ctx, ob session.Onboarding) error {
	ob.Email = strings.ToLower(strings.TrimSpace(ob.Email))
	token, err := s.sessions.IssueOnboarding(ob)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	s.sessions.SetOnboardingCookie(c, token)
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}
