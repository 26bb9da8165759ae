// Package oauth implements the Google sign-in code exchange.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Scopes requested during sign-in.
	scopes = "openid email profile"
)

// GoogleUser is the subset of userinfo fields the app uses.
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleClient drives the authorization-code flow against Google.
type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	userinfoURL  string
	http         *http.Client
}

// NewGoogleClient returns a client, or nil when Google sign-in is not
// configured.
func NewGoogleClient(clientID, clientSecret, appURL string) *GoogleClient {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  strings.TrimSuffix(appURL, "/") + "/api/auth/google/callback",
		tokenURL:     tokenURL,
		userinfoURL:  userinfoURL,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL builds the Google consent URL for the given CSRF state.
func (g *GoogleClient) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {g.clientID},
		"redirect_uri":  {g.redirectURI},
		"response_type": {"code"},
		"scope":         {scopes},
		"state":         {state},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}
	return authURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Exchange trades the authorization code for an access token and fetches the
// user's profile.
func (g *GoogleClient) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {g.clientID},
		"client_secret": {g.clientSecret},
		"redirect_uri":  {g.redirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, string(b))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}

	return g.userinfo(ctx, token.AccessToken)
}

func (g *GoogleClient) userinfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, string(b))
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" || user.Email == "" {
		return nil, fmt.Errorf("userinfo response missing id or email")
	}
	return &user, nil
}
