package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoogleClient_RequiresCredentials(t *testing.T) {
	assert.Nil(t, NewGoogleClient("", "secret", "http://localhost:8375"))
	assert.Nil(t, NewGoogleClient("id", "", "http://localhost:8375"))
	assert.NotNil(t, NewGoogleClient("id", "secret", "http://localhost:8375"))
}

func TestGoogleClient_AuthURL(t *testing.T) {
	g := NewGoogleClient("client-123", "secret", "http://localhost:8375/")

	raw := g.AuthURL("state-abc")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8375/api/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-abc", q.Get("state"))
}

func TestGoogleClient_Exchange(t *testing.T) {
	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(GoogleUser{
			ID:            "google-sub-1",
			Email:         "chef@example.com",
			VerifiedEmail: true,
			Name:          "Chef One",
			Picture:       "https://lh3.example.com/p.jpg",
		})
	}))
	defer userinfoSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "access-token-1"})
	}))
	defer tokenSrv.Close()

	g := NewGoogleClient("id", "secret", "http://localhost:8375")
	g.tokenURL = tokenSrv.URL
	g.userinfoURL = userinfoSrv.URL

	user, err := g.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", user.ID)
	assert.Equal(t, "chef@example.com", user.Email)
}

func TestGoogleClient_Exchange_TokenRejected(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer tokenSrv.Close()

	g := NewGoogleClient("id", "secret", "http://localhost:8375")
	g.tokenURL = tokenSrv.URL

	_, err := g.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleClient_Exchange_UserinfoMissingFields(t *testing.T) {
	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"name": "No ID Here"})
	}))
	defer userinfoSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer tokenSrv.Close()

	g := NewGoogleClient("id", "secret", "http://localhost:8375")
	g.tokenURL = tokenSrv.URL
	g.userinfoURL = userinfoSrv.URL

	_, err := g.Exchange(context.Background(), "code")
	assert.Error(t, err)
}
