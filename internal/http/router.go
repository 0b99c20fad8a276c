// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/internal/http/handlers"
	"wayfarer/internal/http/middleware"
)

type RouterDeps struct {
	Logger       *zap.Logger
	AllowOrigins []string
	Itinerary    *handlers.ItineraryHandler
	Trip         *handlers.TripHandler
	Health       *handlers.HealthHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(deps.AllowOrigins))

	r.GET("/health", deps.Health.Health)

	api := r.Group("/api")
	api.POST("/generate-itinerary", deps.Itinerary.Generate)
	api.POST("/plan-trip", deps.Itinerary.Generate)

	trips := api.Group("/trips")
	trips.POST("", deps.Trip.Create)
	trips.GET("", deps.Trip.List)
	trips.GET("/:id", deps.Trip.Get)
	trips.DELETE("/:id", deps.Trip.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NotFound",
			"message": "The requested endpoint does not exist",
		})
	})

	return r
}
