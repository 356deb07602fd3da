package profile

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

// Module wires body profile routes under /api/profile.

type Module struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/profile")
	grp.Use(middleware.Auth(container.GetRedis(), m.JWT))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		grp.GET("", m.Handler.Get)
		grp.PUT("", m.Handler.Update)
		grp.PUT("/image", m.Handler.SetImage)
		grp.DELETE("/image", m.Handler.ClearImage)
		grp.POST("/reset", m.Handler.Reset)
	}
}
