package wechat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
)

func TestLoginExchangesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/wechat/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "code-123", req["code"])

		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "at",
			ExpiresIn:    7200,
			RefreshToken: "rt",
			OpenID:       "openid-1",
			Scope:        "snsapi_userinfo",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tok, err := c.Login(context.Background(), "code-123")
	require.NoError(t, err)
	require.Equal(t, "at", tok.AccessToken)
	require.Equal(t, "openid-1", tok.OpenID)
}

func TestLoginRejectsEmptyCode(t *testing.T) {
	c := NewClient("http://localhost:0")
	_, err := c.Login(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoginUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "bad-code")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginMissingFieldsIsDecodingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"scope": "none"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "code")
	require.ErrorIs(t, err, domain.ErrDecodingFailure)
}

func TestFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/wechat/userinfo", r.URL.Path)
		require.Equal(t, "at", r.URL.Query().Get("access_token"))
		require.Equal(t, "openid-1", r.URL.Query().Get("openid"))

		_ = json.NewEncoder(w).Encode(UserInfo{
			OpenID:    "openid-1",
			Nickname:  "小美",
			AvatarURL: "https://example.com/a.jpg",
			Sex:       2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	info, err := c.FetchUserInfo(context.Background(), "at", "openid-1")
	require.NoError(t, err)
	require.Equal(t, "小美", info.Nickname)
	require.Equal(t, 2, info.Sex)
}

func TestFetchUserInfoRequiresToken(t *testing.T) {
	c := NewClient("http://localhost:0")
	_, err := c.FetchUserInfo(context.Background(), "", "openid")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
