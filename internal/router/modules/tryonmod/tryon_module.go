package tryonmod

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	"github.com/quickfit/quickfit-server/internal/interface/middleware"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

// Module wires the try-on session under /api/tryon. Generation gets its own
// tighter limiter since each call drives a slow inference backend.

type Module struct {
	Handler *handlers.TryOnHandler
	JWT     *helpers.JWTManager
}

func New(h *handlers.TryOnHandler, jwt *helpers.JWTManager) *Module {
	return &Module{Handler: h, JWT: jwt}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	generateLimiter := middleware.RateLimit(container.GetRedis(), 6, time.Minute, middleware.KeyByUserID(), nil)

	grp := rg.Group("/tryon")
	grp.Use(middleware.Auth(container.GetRedis(), m.JWT))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		grp.GET("/state", m.Handler.State)
		grp.POST("/garments/items", m.Handler.SelectItem)
		grp.POST("/garments/uploads", m.Handler.Upload)
		grp.DELETE("/garments/:index", m.Handler.Remove)
		grp.DELETE("/garments", m.Handler.Clear)
		grp.POST("/generate", generateLimiter, m.Handler.Generate)
		grp.GET("/result", m.Handler.Result)
		grp.POST("/favorite", m.Handler.Favorite)
		grp.POST("/favorite/items", m.Handler.FavoriteWithItems)
	}
}
