package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

// Module wires WeChat auth routes.
// Public: POST /api/auth/wechat/login, POST /api/auth/refresh
// Protected: POST /api/auth/logout, GET /api/auth/me

type Module struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.AuthHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	// Private-network callers (local dev, probes) bypass the login limits.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	grp := rg.Group("/auth")
	grp.POST("/wechat/login", loginLimiter, m.Handler.Login)
	grp.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	protected := grp.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		protected.POST("/logout", m.Handler.Logout)
		protected.GET("/me", m.Handler.Me)
	}
}
