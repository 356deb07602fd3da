package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/application"
	"github.com/quickfit/quickfit-server/pkg/helpers"
	"github.com/quickfit/quickfit-server/pkg/response"
	"github.com/quickfit/quickfit-server/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type wechatLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req wechatLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Code)
	if err != nil {
		h.Logger.WithError(err).Warn("wechat login failed")
		response.Error[any](c, statusFor(err), "login failed", nil)
		return
	}
	h.Cookies.SetPair(c, res.Tokens.Access, res.Tokens.AccessExp, res.Tokens.Refresh, res.Tokens.RefreshExp)
	response.Success(c, http.StatusOK, gin.H{
		"openid":   res.OpenID,
		"nickname": res.Nickname,
		"avatar":   res.Avatar,
	}, "login successful", map[string]any{
		"access_expires_at":  res.Tokens.AccessExp,
		"refresh_expires_at": res.Tokens.RefreshExp,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.Access, pair.AccessExp, pair.Refresh, pair.RefreshExp)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessExp,
		"refresh_expires_at": pair.RefreshExp,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("userID")); err != nil {
		h.Logger.WithError(err).Warn("session delete failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"openid":   c.GetString("userID"),
		"nickname": c.GetString("userName"),
	}, "session", nil)
}
