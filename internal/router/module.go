package router

import "github.com/gin-gonic/gin"

// Module is one routable feature area (auth, wardrobe, collections,
// profile, try-on). Each registers its own group, middleware and limiters
// under the shared /api prefix.
type Module interface {
	Register(rg *gin.RouterGroup)
}
