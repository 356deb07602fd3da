package collection

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

// Module wires outfit collection routes under /api/collections.

type Module struct {
	Handler *handlers.CollectionHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.CollectionHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/collections")
	grp.Use(middleware.Auth(container.GetRedis(), m.JWT))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		grp.GET("", m.Handler.List)
		grp.GET("/:id", m.Handler.Get)
		grp.PUT("/:id", m.Handler.Update)
		grp.DELETE("/:id", m.Handler.Delete)
		grp.POST("/:id/export", m.Handler.Export)
	}
}
