package server

import (
	"context"
	"strings"

	"simmr/internal/middleware"
	"simmr/internal/session"

	"github.com/gofiber/fiber/v2"
)

// publicPrefixes are reachable without any cookie: sign-in endpoints, health
// probes and metrics.
var publicPrefixes = []string{
	"/api/auth/",
	"/health",
	"/metrics",
	"/api/metrics/dashboard",
}

func isPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isOnboardingPath(path string) bool {
	return strings.HasPrefix(path, "/api/onboarding")
}

// SessionGate classifies the request path and enforces the matching cookie
// kind. Absent and invalid tokens are treated the same: both redirect to the
// login page, and an invalid cookie is deleted on the way out.
func (s *Server) SessionGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		if isPublicPath(path) {
			return c.Next()
		}

		if isOnboardingPath(path) {
			// A signed-in user has no business onboarding again.
			if cookie := c.Cookies(session.SessionCookie); cookie != "" {
				if _, err := s.sessions.VerifySession(cookie); err == nil {
					return c.Redirect("/feed", fiber.StatusSeeOther)
				}
			}

			cookie := c.Cookies(session.OnboardingCookie)
			if cookie == "" {
				return c.Redirect("/login", fiber.StatusSeeOther)
			}
			ob, err := s.sessions.VerifyOnboarding(cookie)
			if err != nil {
				s.sessions.ClearCookie(c, session.OnboardingCookie)
				return c.Redirect("/login", fiber.StatusSeeOther)
			}

			c.Locals("onboarding", ob)
			return c.Next()
		}

		cookie := c.Cookies(session.SessionCookie)
		if cookie == "" {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		sess, err := s.sessions.VerifySession(cookie)
		if err != nil {
			s.sessions.ClearCookie(c, session.SessionCookie)
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		c.Locals("userID", sess.UserID)
		c.Locals("username", sess.Username)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sess.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
