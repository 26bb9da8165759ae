package service

import (
	"context"
	"strings"

	"simmr/internal/middleware"
	"simmr/internal/models"
	"simmr/internal/observability"
	"simmr/internal/repository"
	"simmr/internal/session"
	"simmr/internal/validation"

	"simmr/internal/mail"
	"simmr/internal/oauth"

	"github.com/google/uuid"
)

// AuthService implements sign-in flows: magic links, Google OAuth and
// onboarding.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    mail.Mailer
	appURL    string
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, mailer mail.Mailer, appURL string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		appURL:    strings.TrimSuffix(appURL, "/"),
	}
}

// RequestMagicLink issues a fresh verification token for the address and
// sends the sign-in link. Send failures are logged and swallowed so the
// endpoint never reveals whether an address exists.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.NewValidationError("Invalid email")
	}

	vt := models.NewVerificationToken(email, uuid.NewString())
	if err := s.tokenRepo.Reissue(ctx, vt); err != nil {
		return err
	}

	magicLink := s.appURL + "/api/auth/email/verify?token=" + vt.Token
	if err := s.mailer.SendMagicLink(ctx, email, magicLink); err != nil {
		middleware.Logger.ErrorContext(ctx, "magic link email failed", "email", email, "error", err)
	}
	observability.MagicLinksIssuedTotal.Inc()
	return nil
}

// MagicLinkResult describes where a verified magic link leads.
type MagicLinkResult struct {
	// User is set when an account already exists for the address.
	User *models.User
	// Email is the verified address, for onboarding when User is nil.
	Email string
}

// VerifyMagicLink consumes the token. Returns nil when the token is unknown,
// expired, or already used.
func (s *AuthService) VerifyMagicLink(ctx context.Context, token string) (*MagicLinkResult, error) {
	if token == "" {
		return nil, nil
	}

	vt, err := s.tokenRepo.Consume(ctx, token)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, nil
	}

	user, err := s.userRepo.GetByEmail(ctx, vt.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &MagicLinkResult{Email: vt.Email}, nil
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return &MagicLinkResult{User: user, Email: vt.Email}, nil
}

// GoogleSignInResult describes where a completed Google exchange leads.
type GoogleSignInResult struct {
	// User is set when an account was found or linked.
	User *models.User
	// Onboarding is set for identities with no account yet.
	Onboarding *session.Onboarding
}

// CompleteGoogleSignIn matches the Google identity to an account: first by
// googleId, then by email (linking the Google account), else onboarding.
func (s *AuthService) CompleteGoogleSignIn(ctx context.Context, gu *oauth.GoogleUser) (*GoogleSignInResult, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, gu.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return &GoogleSignInResult{User: user}, nil
	}

	user, err = s.userRepo.GetByEmail(ctx, gu.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		// Link the Google account to the existing user.
		user.GoogleID = &gu.ID
		user.EmailVerified = true
		if user.AvatarURL == "" {
			user.AvatarURL = gu.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return &GoogleSignInResult{User: user}, nil
	}

	return &GoogleSignInResult{Onboarding: &session.Onboarding{
		Email:    gu.Email,
		Provider: models.AuthProviderGoogle,
		GoogleID: gu.ID,
	}}, nil
}

// CompleteOnboardingInput is the profile payload for account creation.
type CompleteOnboardingInput struct {
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	// Verified identity carried by the onboarding token.
	Email    string
	Provider string
	GoogleID string
}

// CompleteOnboarding creates the account. The availability pre-check is
// advisory; the unique index decides races and maps to CONFLICT.
func (s *AuthService) CompleteOnboarding(ctx context.Context, in CompleteOnboardingInput) (*models.User, error) {
	username := validation.NormalizeUsername(in.Username)
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.DisplayName(in.DisplayName); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is already taken.")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user := &models.User{
		Username:      username,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Email:         &email,
		EmailVerified: true,
		AuthProvider:  in.Provider,
		Bio:           strings.TrimSpace(in.Bio),
		AvatarURL:     strings.TrimSpace(in.AvatarURL),
	}
	if in.GoogleID != "" {
		user.GoogleID = &in.GoogleID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
