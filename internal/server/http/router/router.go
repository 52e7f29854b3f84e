package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgAuth "github.com/patisserie-shop/storefront/internal/pkg/auth"
	"github.com/patisserie-shop/storefront/internal/server/http/handlers"
	"github.com/patisserie-shop/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DashboardFacade, tokens pkgAuth.Provider, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.ViewerIdentity(tokens))

	handler := handlers.NewDashboardHandler(facade)

	api := engine.Group("/api/dashboard")
	api.GET("/orders", handler.List)
	api.GET("/orders/:id", handler.Get)
	api.GET("/orders/:id/timeline", handler.Timeline)
	api.GET("/stats", handler.Stats)
	api.GET("/health", handler.Health)
	api.POST("/reload", handler.Reload)

	admin := api.Group("")
	admin.Use(middleware.AdminRequired())
	admin.POST("/orders/:id/status", handler.ChangeStatus)

	return engine
}
