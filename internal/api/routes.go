package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/pokeprice/internal/api/handlers"
	"github.com/codyseavey/pokeprice/internal/overlay"
	"github.com/codyseavey/pokeprice/internal/services"
)

func SetupRouter(sessions *overlay.SessionStore, lookupCache *services.LookupCacheService, allowedOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	// CORS configuration - the extension origin must be listed explicitly
	config := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	// Initialize handlers
	overlayHandler := handlers.NewOverlayHandler(sessions)
	pageHandler := handlers.NewPageHandler()

	// API routes
	api := router.Group("/api")
	{
		overlays := api.Group("/overlays")
		{
			overlays.POST("", overlayHandler.CreateOverlay)
			overlays.GET("/:id", overlayHandler.GetOverlay)
			overlays.DELETE("/:id", overlayHandler.DeleteOverlay)
			overlays.POST("/:id/scan", overlayHandler.Scan)
			overlays.POST("/:id/messages", overlayHandler.HandleMessage)
			overlays.POST("/:id/hover", overlayHandler.Hover)
			overlays.POST("/:id/manual", overlayHandler.SubmitManual)
			overlays.POST("/:id/range", overlayHandler.SwitchRange)
			overlays.POST("/:id/close", overlayHandler.CloseOverlay)
			overlays.GET("/:id/chart.svg", overlayHandler.ChartSVG)
			overlays.GET("/:id/chart.png", overlayHandler.ChartPNG)
			overlays.GET("/:id/chart.html", overlayHandler.ChartHTML)
			overlays.GET("/:id/events", overlayHandler.Events)

			// Hover scan buttons
			overlays.POST("/:id/affordances", overlayHandler.ShowAffordance)
			overlays.POST("/:id/affordances/pointer", overlayHandler.AffordancePointer)
			overlays.POST("/:id/affordances/click", overlayHandler.ClickAffordance)
		}

		api.POST("/pages/images", pageHandler.PageImages)
		api.GET("/query/normalize", pageHandler.Normalize)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "overlays": sessions.Len()}
		if lookupCache != nil {
			if n, err := lookupCache.Count(); err == nil {
				status["cached_cards"] = n
			}
		}
		c.JSON(http.StatusOK, status)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
