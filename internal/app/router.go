package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"assistall/internal/handler"
	"assistall/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler *handler.RideHandler
	UserHandler *handler.UserHandler
	RedisClient *redis.Client
	NewRelicApp *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.Feed)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.PUT("/:id/accept", deps.RideHandler.AcceptRide)
			rides.PUT("/:id/pickup", deps.RideHandler.PickupRide)
			rides.PUT("/:id/complete", deps.RideHandler.CompleteRide)
			rides.PUT("/:id/cancel", deps.RideHandler.CancelRide)
			rides.PUT("/:id/review", deps.RideHandler.ReviewRide)
		}
	}

	return router
}
