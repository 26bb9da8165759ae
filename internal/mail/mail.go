// Package mail delivers magic-link sign-in emails. With a Resend API key it
// calls the Resend HTTP API; without one it logs the link, which keeps local
// development working with no mail account.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"simmr/internal/middleware"
)

const resendURL = "https://api.resend.com/emails"

// Mailer sends sign-in emails.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, magicLink string) error
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

// NewResendMailer returns a ResendMailer.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

const magicLinkHTML = `<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 16px;">Sign in to Simmr</h2>
  <p style="color: #555; margin-bottom: 24px;">Click the link below to sign in. This link expires in 15 minutes.</p>
  <a href="%s" style="display: inline-block; background: #f97316; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">Sign in to Simmr</a>
  <p style="color: #999; margin-top: 24px; font-size: 14px;">If you didn't request this, you can safely ignore this email.</p>
</div>`

// SendMagicLink emails the sign-in link to the address.
func (m *ResendMailer) SendMagicLink(ctx context.Context, email, magicLink string) error {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      email,
		Subject: "Sign in to Simmr",
		HTML:    fmt.Sprintf(magicLinkHTML, magicLink),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend API returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// LogMailer logs the magic link instead of sending it.
type LogMailer struct{}

// SendMagicLink logs the link for development.
func (LogMailer) SendMagicLink(ctx context.Context, email, magicLink string) error {
	middleware.Logger.InfoContext(ctx, "magic link issued",
		"email", email,
		"link", magicLink,
	)
	return nil
}

// NewMailer picks the Resend mailer when a key is configured, else the log
// fallback.
func NewMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		return LogMailer{}
	}
	return NewResendMailer(apiKey, from)
}
