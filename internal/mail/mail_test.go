package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailer_SendMagicLink(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewResendMailer("test-key", "Simmr <noreply@simmr.app>")
	m.baseURL = srv.URL

	err := m.SendMagicLink(context.Background(), "a@b.com", "https://simmr.app/api/auth/email/verify?token=tok")
	require.NoError(t, err)
	assert.Equal(t, "Simmr <noreply@simmr.app>", got.From)
	assert.Equal(t, "a@b.com", got.To)
	assert.Equal(t, "Sign in to Simmr", got.Subject)
	assert.Contains(t, got.HTML, "https://simmr.app/api/auth/email/verify?token=tok")
}

func TestResendMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewResendMailer("test-key", "bad-from")
	m.baseURL = srv.URL

	err := m.SendMagicLink(context.Background(), "a@b.com", "https://example.com")
	assert.Error(t, err)
}

func TestNewMailer_Fallback(t *testing.T) {
	_, isLog := NewMailer("", "Simmr <noreply@simmr.app>").(LogMailer)
	assert.True(t, isLog)

	_, isResend := NewMailer("key", "Simmr <noreply@simmr.app>").(*ResendMailer)
	assert.True(t, isResend)
}

func TestLogMailer_NeverFails(t *testing.T) {
	err := LogMailer{}.SendMagicLink(context.Background(), "a@b.com", "http://localhost:8375/x")
	assert.NoError(t, err)
}
