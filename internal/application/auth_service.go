package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/wechat"
)

// TokenPair is one issued access/refresh pair with expiries for cookies.
type TokenPair struct {
	Access     string
	AccessExp  time.Time
	Refresh    string
	RefreshExp time.Time
}

// LoginResult is what a completed WeChat login yields.
type LoginResult struct {
	OpenID   string
	Nickname string
	Avatar   string
	Tokens   TokenPair
}

// SessionStore is the slice of the redis API the auth service touches.
// *redis.Client satisfies it.
type SessionStore interface {
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService exchanges a WeChat auth code for a server session. The session
// lives in a Redis hash keyed by openid; the JWT pair carries the session id
// so refresh rotation invalidates earlier pairs.
type AuthService struct {
	WeChat *wechat.Client
	Redis  SessionStore
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(wc *wechat.Client, rdb SessionStore, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{WeChat: wc, Redis: rdb, JWT: jwt, Logger: logger}
}

func sessionKey(openID string) string { return "user:session:" + openID }

// Login exchanges the code, fetches the WeChat profile (best effort) and
// opens a fresh session.
func (s *AuthService) Login(ctx context.Context, code string) (LoginResult, error) {
	if code == "" {
		return LoginResult{}, fmt.Errorf("%w: empty auth code", domain.ErrInvalidInput)
	}
	tok, err := s.WeChat.Login(ctx, code)
	if err != nil {
		return LoginResult{}, err
	}

	res := LoginResult{OpenID: tok.OpenID}
	if info, err := s.WeChat.FetchUserInfo(ctx, tok.AccessToken, tok.OpenID); err != nil {
		s.Logger.WithError(err).Warn("wechat userinfo fetch failed, continuing with openid only")
	} else {
		res.Nickname = info.Nickname
		res.Avatar = info.AvatarURL
	}

	sid := uuid.NewString()
	key := sessionKey(tok.OpenID)
	fields := map[string]any{
		"openid":   tok.OpenID,
		"sid":      sid,
		"nickname": res.Nickname,
		"avatar":   res.Avatar,
		"login_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Redis.HSet(ctx, key, fields).Err(); err != nil {
		return LoginResult{}, fmt.Errorf("%w: session store: %v", domain.ErrStorageFailure, err)
	}
	if err := s.Redis.Expire(ctx, key, s.JWT.RefreshTTL).Err(); err != nil {
		return LoginResult{}, fmt.Errorf("%w: session expire: %v", domain.ErrStorageFailure, err)
	}

	pair, err := s.issuePair(tok.OpenID, sid)
	if err != nil {
		return LoginResult{}, err
	}
	res.Tokens = pair
	return res, nil
}

// Refresh validates the refresh token against the stored session, rotates
// the session id and issues a new pair. An old pair dies with its sid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	key := sessionKey(claims.UserID)
	data, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil || len(data) == 0 {
		return TokenPair{}, fmt.Errorf("%w: session not found", domain.ErrUnauthorized)
	}
	if data["sid"] != claims.SessionID {
		return TokenPair{}, fmt.Errorf("%w: session superseded", domain.ErrUnauthorized)
	}

	sid := uuid.NewString()
	if err := s.Redis.HSet(ctx, key, "sid", sid).Err(); err != nil {
		return TokenPair{}, fmt.Errorf("%w: session rotate: %v", domain.ErrStorageFailure, err)
	}
	if err := s.Redis.Expire(ctx, key, s.JWT.RefreshTTL).Err(); err != nil {
		return TokenPair{}, fmt.Errorf("%w: session expire: %v", domain.ErrStorageFailure, err)
	}
	return s.issuePair(claims.UserID, sid)
}

// Logout drops the session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, openID string) error {
	if openID == "" {
		return nil
	}
	if err := s.Redis.Del(ctx, sessionKey(openID)).Err(); err != nil {
		return fmt.Errorf("%w: session delete: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

func (s *AuthService) issuePair(openID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(openID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(openID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, AccessExp: aexp, Refresh: refresh, RefreshExp: rexp}, nil
}
