package routes

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/handlers"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/middleware"
)

func SetupRoutes(
	authHandler *handlers.AuthHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	videoHandler *handlers.VideoHandler,
	predictionHandler *handlers.PredictionHandler,
) *gin.Engine {

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// =========================
	// CORS CONFIG (DEV / PROD)
	// =========================
	env := os.Getenv("ENV") // development | production
	frontendURL := os.Getenv("CORS_ORIGIN")

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if env == "production" {
		if frontendURL == "" {
			log.Fatal("❌ CORS_ORIGIN environment variable is NOT set in production!")
		}
		corsConfig.AllowOrigins = []string{frontendURL}
		log.Printf("✅ CORS configured for production: %s", frontendURL)
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
		if frontendURL != "" {
			allowedOrigins = append(allowedOrigins, frontendURL)
		}

		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			if strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.") {
				return true
			}
			return false
		}
		log.Printf("✅ CORS configured for development with %d allowed origins", len(allowedOrigins))
	}

	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "tiktok-prediction-system",
		})
	})

	// =========================
	// API ROUTES
	// =========================
	api := router.Group("/api")
	{
		// ---------- AUTH ----------
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ---------- ANALYTICS (public reads) ----------
		analytics := api.Group("/analytics")
		{
			analytics.GET("/summary", analyticsHandler.GetSummary)
			analytics.GET("/performance/day", analyticsHandler.GetPerformanceByDay)
			analytics.GET("/performance/hour", analyticsHandler.GetPerformanceByHour)
			analytics.GET("/performance/content", analyticsHandler.GetPerformanceByContentType)
			analytics.GET("/performance/audio", analyticsHandler.GetPerformanceByAudioType)
			analytics.GET("/top", analyticsHandler.GetTopVideos)
			analytics.GET("/best", analyticsHandler.GetBestVideo)
			analytics.GET("/correlation", analyticsHandler.GetCorrelation)
			analytics.GET("/trending-threshold", analyticsHandler.GetTrendingThreshold)
		}

		// ---------- VIDEOS ----------
		videos := api.Group("/videos")
		{
			videos.GET("", videoHandler.GetAllVideos)
			videos.GET("/:id", videoHandler.GetVideoByID)

			videosProtected := videos.Group("/")
			videosProtected.Use(middleware.JWTMiddleware())
			{
				videosProtected.POST("", videoHandler.CreateVideo)
				videosProtected.POST("/import", videoHandler.ImportCSV)
				videosProtected.POST("/reload", videoHandler.ReloadSnapshot)
			}
		}

		// ---------- PREDICTION ----------
		api.POST("/predict", predictionHandler.PredictSingle)
		api.POST("/predict/batch", predictionHandler.PredictBatch)

		model := api.Group("/model")
		{
			model.GET("/info", predictionHandler.GetModelInfo)
			model.GET("/feature-importance", predictionHandler.GetFeatureImportance)
			model.GET("/schema", predictionHandler.GetFeatureSchema)
		}
	}

	return router
}
