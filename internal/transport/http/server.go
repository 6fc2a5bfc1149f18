package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/josevbrito/food-review-agent/internal/bootstrap"
	"github.com/josevbrito/food-review-agent/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(app.Config.App.CORSOrigins)))

	healthHandler := handler.NewHealthHandler(app.Config.App.Name)
	chatHandler := handler.NewChatHandler(app.Agent)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Check)

	api := router.Group("/api")
	api.POST("/chat", chatHandler.Chat)

	return router
}

// corsConfig allow-lists the configured origins. A single "*" entry selects
// the permissive variant, which cannot carry credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
