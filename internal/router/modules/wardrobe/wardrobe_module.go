package wardrobe

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

// Module wires wardrobe CRUD and search under /api/wardrobe. All routes
// require an authenticated session.

type Module struct {
	Handler *handlers.WardrobeHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.WardrobeHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/wardrobe")
	grp.Use(middleware.Auth(container.GetRedis(), m.JWT))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		grp.GET("/items", m.Handler.List)
		grp.POST("/items", m.Handler.Create)
		grp.GET("/items/:id", m.Handler.Get)
		grp.PUT("/items/:id", m.Handler.Update)
		grp.DELETE("/items/:id", m.Handler.Delete)
		grp.GET("/search", m.Handler.Search)
	}
}
