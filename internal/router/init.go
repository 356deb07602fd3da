package router

import (
	"github.com/quickfit/quickfit-server/internal/container"
	handlers "github.com/quickfit/quickfit-server/internal/interface/http"
	authmodule "github.com/quickfit/quickfit-server/internal/router/modules/auth"
	collectionmodule "github.com/quickfit/quickfit-server/internal/router/modules/collection"
	profilemodule "github.com/quickfit/quickfit-server/internal/router/modules/profile"
	tryonmodule "github.com/quickfit/quickfit-server/internal/router/modules/tryonmod"
	wardrobemodule "github.com/quickfit/quickfit-server/internal/router/modules/wardrobe"
)

// InitModules builds all feature handlers from container singletons and
// registers them with the router registry. Called once during startup, after
// the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	store := container.GetStore()

	authHandler := handlers.NewAuthHandler(container.GetAuth(), logger, cfg.CookieDomain, cfg.CookieSecure)
	wardrobeHandler := handlers.NewWardrobeHandler(store, logger)
	collectionHandler := handlers.NewCollectionHandler(store, logger, container.GetGCS(), cfg.GCSBucket)
	profileHandler := handlers.NewProfileHandler(store, logger)
	tryOnHandler := handlers.NewTryOnHandler(container.GetTryOn(), logger)

	r.Add(authmodule.New(authHandler, jwt))
	r.Add(wardrobemodule.New(wardrobeHandler, jwt))
	r.Add(collectionmodule.New(collectionHandler, jwt))
	r.Add(profilemodule.New(profileHandler, jwt))
	r.Add(tryonmodule.New(tryOnHandler, jwt))
}
