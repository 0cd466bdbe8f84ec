package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventspark/internal/container"
	"github.com/joshua-takyi/eventspark/internal/handlers"
	"github.com/joshua-takyi/eventspark/internal/middleware"
)

const maxBodyBytes = 10 << 10

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.ClientURLs,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	session := handlers.SessionIssuer{
		Tokens: container.Tokens,
		Secure: container.Config.IsProduction(),
	}
	auth := middleware.AuthMiddleware(container.Tokens, container.UserService, container.Logger)

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "eventspark-api",
			})
		})

		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", handlers.Signup(container.UserService, session))
			authRoutes.POST("/login", handlers.Login(container.UserService, session))
			authRoutes.GET("/logout", handlers.Logout(session))
		}

		v1.GET("/profile", auth, handlers.Profile(container.UserService))

		eventRoutes := v1.Group("/events")
		{
			eventRoutes.GET("", handlers.ListEvents(container.EventService))
			eventRoutes.GET("/near", handlers.DiscoverEvents(container.DiscoveryService))
			eventRoutes.POST("", auth, handlers.CreateEvent(container.EventService))
			eventRoutes.GET("/mine", auth, handlers.ListMyEvents(container.EventService))
			eventRoutes.GET("/:id", handlers.GetEvent(container.EventService))
			eventRoutes.DELETE("/:id", auth, handlers.DeleteEvent(container.EventService))
		}

		aiRoutes := v1.Group("/ai")
		{
			aiRoutes.POST("/city-guide", handlers.CityGuide(container.CityGuideService))
			aiRoutes.GET("/city-guide", handlers.CityGuideQuery(container.CityGuideService))
		}
	}

	return r
}
