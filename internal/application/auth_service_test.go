package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/wechat"
)

// fakeSessions implements SessionStore over a plain map.
type fakeSessions struct {
	hashes map[string]map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{hashes: map[string]map[string]string{}}
}

func (f *fakeSessions) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	h := f.hashes[key]
	if h == nil {
		h = map[string]string{}
		f.hashes[key] = h
	}
	if len(values) == 1 {
		if m, ok := values[0].(map[string]any); ok {
			for k, v := range m {
				h[k] = fmt.Sprint(v)
			}
			return redis.NewIntResult(int64(len(m)), nil)
		}
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeSessions) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (f *fakeSessions) Expire(_ context.Context, key string, _ time.Duration) *redis.BoolCmd {
	_, ok := f.hashes[key]
	return redis.NewBoolResult(ok, nil)
}

func (f *fakeSessions) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.hashes[k]; ok {
			delete(f.hashes, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeSessions) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/wechat/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "wx-token",
				"expires_in":    7200,
				"refresh_token": "wx-refresh",
				"openid":        "openid-9",
				"scope":         "snsapi_userinfo",
			})
		case "/auth/wechat/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"openid":     "openid-9",
				"nickname":   "小美",
				"headimgurl": "https://cdn.example/a.png",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	sessions := newFakeSessions()
	jwtm := helpers.NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)
	svc := NewAuthService(wechat.NewClient(srv.URL), sessions, jwtm, logrus.New())
	return svc, sessions
}

func TestLoginOpensSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "code-1")
	require.NoError(t, err)
	require.Equal(t, "openid-9", res.OpenID)
	require.Equal(t, "小美", res.Nickname)

	claims, err := svc.JWT.ParseAccessToken(res.Tokens.Access)
	require.NoError(t, err)
	require.Equal(t, "openid-9", claims.UserID)
	require.Equal(t, sessions.hashes["user:session:openid-9"]["sid"], claims.SessionID)
}

func TestLoginRejectsEmptyCode(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "code-1")
	require.NoError(t, err)
	oldClaims, err := svc.JWT.ParseRefreshToken(res.Tokens.Refresh)
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), res.Tokens.Refresh)
	require.NoError(t, err)

	newClaims, err := svc.JWT.ParseRefreshToken(pair.Refresh)
	require.NoError(t, err)
	require.NotEqual(t, oldClaims.SessionID, newClaims.SessionID)
	require.Equal(t, newClaims.SessionID, sessions.hashes["user:session:openid-9"]["sid"])

	// the pre-rotation pair died with its sid
	_, err = svc.Refresh(context.Background(), res.Tokens.Refresh)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshRequiresLiveSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "code-1")
	require.NoError(t, err)
	delete(sessions.hashes, "user:session:openid-9")

	_, err = svc.Refresh(context.Background(), res.Tokens.Refresh)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "code-1")
	require.NoError(t, err)
	require.Contains(t, sessions.hashes, "user:session:openid-9")

	require.NoError(t, svc.Logout(context.Background(), "openid-9"))
	require.NotContains(t, sessions.hashes, "user:session:openid-9")
	require.NoError(t, svc.Logout(context.Background(), "openid-9"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}
