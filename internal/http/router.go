// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freightquote/internal/auth"
	"freightquote/internal/http/handlers"
	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/location"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
)

type RouterDeps struct {
	Pricing      *pricing.Service
	Quotes       *quote.Service
	Routes       handlers.RouteLookup
	Location     *location.Service
	Auth         auth.Capability
	AuthRequired bool
	Logger       *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Auth == nil {
		deps.Auth = auth.Demo{}
	}
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.Logging(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Auth, deps.AuthRequired), middleware.Session())

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing, deps.Quotes)
	api.GET("/rates", quoteHandler.Rates)
	api.POST("/quotes", quoteHandler.Create)
	api.GET("/quotes", quoteHandler.List)
	api.DELETE("/quotes", quoteHandler.Clear)

	routeHandler := handlers.NewRouteHandler(deps.Routes)
	api.POST("/routes", routeHandler.Lookup)

	locationHandler := handlers.NewLocationHandler(deps.Location)
	api.POST("/location", locationHandler.Resolve)

	sessionHandler := handlers.NewSessionHandler(deps.Auth)
	api.GET("/session", sessionHandler.Get)
	api.POST("/session/logout", sessionHandler.Logout)

	return r
}
