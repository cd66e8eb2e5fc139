package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pttech-backend/internal/shared/middleware"
	"pttech-backend/pkg/container"
)

func newRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	r.GET("/healthz", func(gc *gin.Context) {
		ctx := gc.Request.Context()
		if err := c.DB.HealthCheck(ctx); err != nil {
			gc.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": err.Error()})
			return
		}
		if err := c.Cache.Ping(ctx); err != nil {
			gc.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "cache": err.Error()})
			return
		}
		gc.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(c.JWT)
	optionalAuth := middleware.OptionalAuth(c.JWT)
	admin := middleware.RequireAdmin()

	api := r.Group("/api/v1")
	c.UserHandler.RegisterRoutes(api, auth, admin)
	c.ProductHandler.RegisterRoutes(api, auth, admin)
	c.CatalogHandler.RegisterRoutes(api, auth, admin)
	c.CartHandler.RegisterRoutes(api, optionalAuth)
	c.DiscountHandler.RegisterRoutes(api, auth, admin)
	c.OrderHandler.RegisterRoutes(api, auth, admin)
	c.PaymentHandler.RegisterRoutes(api, auth, admin)
	c.InventoryHandler.RegisterRoutes(api, auth, admin)
	c.ContentHandler.RegisterRoutes(api, auth, admin)
	c.ReviewHandler.RegisterRoutes(api, auth, admin)

	return r
}
