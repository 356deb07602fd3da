package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken("openid-1", "sid-1")
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "openid-1", claims.UserID)
	require.Equal(t, "sid-1", claims.SessionID)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	tok, _, err := m.GenerateRefreshToken("openid-1", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)

	claims, err := m.ParseRefreshToken(tok)
	require.NoError(t, err)
	require.Equal(t, "sid-1", claims.SessionID)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	tok, _, err := m.GenerateAccessToken("openid-1", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)
}
