// Package session issues and verifies the signed cookies that carry
// authentication state: the long-lived session token and the short-lived
// onboarding token handed out after a verified sign-in without an account.
package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the signed session token for an authenticated user.
	SessionCookie = "simmr_session"
	// OnboardingCookie carries the short-lived token between a verified
	// sign-in and profile creation.
	OnboardingCookie = "simmr_onboarding"
	// StateCookie carries the OAuth CSRF state nonce during the Google flow.
	StateCookie = "oauth_state"

	SessionTTL    = 7 * 24 * time.Hour
	OnboardingTTL = time.Hour
	StateTTL      = 10 * time.Minute

	issuer   = "simmr-api"
	audience = "simmr-client"

	kindSession    = "session"
	kindOnboarding = "onboarding"
)

// Manager signs and verifies tokens with the application secret.
type Manager struct {
	secret []byte
	secure bool
}

// NewManager returns a Manager. secure controls the Secure flag on cookies.
func NewManager(secret string, secure bool) *Manager {
	return &Manager{secret: []byte(secret), secure: secure}
}

// Session is the verified content of a session token.
type Session struct {
	UserID   uint
	Username string
}

// Onboarding is the verified content of an onboarding token.
type Onboarding struct {
	Email    string
	Provider string
	GoogleID string
}

// IssueSession signs a session token for the given user.
func (m *Manager) IssueSession(userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"kind":     kindSession,
		"iss":      issuer,
		"aud":      audience,
		"exp":      now.Add(SessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifySession parses and validates a session token.
func (m *Manager) VerifySession(tokenString string) (*Session, error) {
	claims, err := m.verify(tokenString, kindSession)
	if err != nil {
		return nil, err
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("missing subject claim")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}
	username, _ := claims["username"].(string)

	return &Session{UserID: uint(userID), Username: username}, nil
}

// IssueOnboarding signs an onboarding token for a verified identity that has
// no account yet.
func (m *Manager) IssueOnboarding(ob Onboarding) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email":    ob.Email,
		"provider": ob.Provider,
		"kind":     kindOnboarding,
		"iss":      issuer,
		"aud":      audience,
		"exp":      now.Add(OnboardingTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	if ob.GoogleID != "" {
		claims["googleId"] = ob.GoogleID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyOnboarding parses and validates an onboarding token.
func (m *Manager) VerifyOnboarding(tokenString string) (*Onboarding, error) {
	claims, err := m.verify(tokenString, kindOnboarding)
	if err != nil {
		return nil, err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("missing email claim")
	}
	provider, _ := claims["provider"].(string)
	googleID, _ := claims["googleId"].(string)

	return &Onboarding{Email: email, Provider: provider, GoogleID: googleID}, nil
}

func (m *Manager) verify(tokenString, kind string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if got, _ := claims["kind"].(string); got != kind {
		return nil, fmt.Errorf("unexpected token kind %q", got)
	}
	return claims, nil
}

// SetSessionCookie writes the session cookie on the response.
func (m *Manager) SetSessionCookie(c *fiber.Ctx, token string) {
	m.setCookie(c, SessionCookie, token, SessionTTL)
}

// SetOnboardingCookie writes the onboarding cookie on the response.
func (m *Manager) SetOnboardingCookie(c *fiber.Ctx, token string) {
	m.setCookie(c, OnboardingCookie, token, OnboardingTTL)
}

// SetStateCookie writes the OAuth state cookie on the response.
func (m *Manager) SetStateCookie(c *fiber.Ctx, state string) {
	m.setCookie(c, StateCookie, state, StateTTL)
}

// ClearCookie expires the named cookie on the response.
func (m *Manager) ClearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m *Manager) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
