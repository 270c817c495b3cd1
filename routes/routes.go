package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cleanapp-server/config"
	"cleanapp-server/middleware"
	"cleanapp-server/services"
	ws "cleanapp-server/websocket"
)

// Services bundles the constructed service layer for route registration.
type Services struct {
	Users         *services.UserService
	Addresses     *services.AddressService
	Categories    *services.CategoryService
	Offers        *services.OfferService
	Jobs          *services.JobService
	Reviews       *services.ReviewService
	Conversations *services.ConversationService
}

// SetupRouter builds the gin engine with all API routes registered.
func SetupRouter(cfg *config.Config, svcs Services, hub *ws.Hub) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationHeader},
		ExposeHeaders:   []string{middleware.CorrelationHeader},
	}))
	router.Use(middleware.CorrelationID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	secret := cfg.JWT.Secret
	apiV1 := router.Group("/api/v1")
	{
		RegisterAuthRoutes(apiV1, svcs.Users, cfg)
		RegisterUserRoutes(apiV1, svcs.Users, svcs.Reviews, secret)
		RegisterAddressRoutes(apiV1, svcs.Addresses, secret)
		RegisterCategoryRoutes(apiV1, svcs.Categories, secret)
		RegisterOfferRoutes(apiV1, svcs.Offers, secret)
		RegisterJobRoutes(apiV1, svcs.Jobs, svcs.Reviews, secret)
		RegisterConversationRoutes(apiV1, svcs.Conversations, secret)
	}

	router.GET("/ws", middleware.AuthMiddleware(secret), ws.ServeWS(hub))

	return router
}
