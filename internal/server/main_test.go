package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"simmr/internal/config"
	"simmr/internal/mail"
	"simmr/internal/models"
	"simmr/internal/oauth"
	"simmr/internal/repository"
	"simmr/internal/service"
	"simmr/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// stubGenerator is a deterministic AI stand-in.
type stubGenerator struct {
	tip         string
	ingredients []models.Ingredient
}

func (g *stubGenerator) CookingTip(ctx context.Context, title, description string) (string, error) {
	return g.tip, nil
}

func (g *stubGenerator) Ingredients(ctx context.Context, dishName string, servings int) ([]models.Ingredient, error) {
	return g.ingredients, nil
}

// newTestServer wires a Server against an in-memory database with the full
// route table and the access gate, but without the process-global middleware
// (metrics, limiter) that does not belong in unit tests.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.VerificationToken{},
	))

	cfg := &config.Config{
		Port:       "8375",
		Env:        "test",
		AppURL:     "http://localhost:8375",
		AuthSecret: "test-secret",
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	s := &Server{
		config:    cfg,
		db:        db,
		sessions:  session.NewManager(cfg.AuthSecret, false),
		userRepo:  userRepo,
		postRepo:  postRepo,
		tokenRepo: tokenRepo,
	}
	gen := &stubGenerator{tip: "Rest the meat before slicing."}
	s.authService = service.NewAuthService(userRepo, tokenRepo, mail.NewMailer("", ""), cfg.AppURL)
	s.postService = service.NewPostService(postRepo, gen)
	s.userService = service.NewUserService(userRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	app.Use(s.SessionGate())
	s.SetupRoutes(app)

	return s, app, db
}

// newFakeGoogle returns a configured Google client. Tests that use it never
// reach the exchange step, so the real endpoints are never contacted.
func newFakeGoogle(t *testing.T) *oauth.GoogleClient {
	t.Helper()
	return oauth.NewGoogleClient("test-id", "test-secret", "http://localhost:8375")
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	email := username + "@example.com"
	user := &models.User{
		Username:      username,
		DisplayName:   "Chef " + username,
		Email:         &email,
		EmailVerified: true,
		AuthProvider:  models.AuthProviderEmail,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Title:     title,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// sessionCookie builds the Cookie header value for a signed-in user.
func sessionCookie(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.sessions.IssueSession(user.ID, user.Username)
	require.NoError(t, err)
	return session.SessionCookie + "=" + token
}

func onboardingCookie(t *testing.T, s *Server, ob session.Onboarding) string {
	t.Helper()
	token, err := s.sessions.IssueOnboarding(ob)
	require.NoError(t, err)
	return session.OnboardingCookie + "=" + token
}

// doRequest runs a request through the app with optional cookie and JSON body.
func doRequest(t *testing.T, app *fiber.App, method, target, cookie string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
