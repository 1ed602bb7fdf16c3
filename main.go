// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/database"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/handlers"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/repository"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/routes"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/services"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	if err := config.LoadConfig(); err != nil {
		log.Println("⚠️ Config load warning:", err)
		log.Println("⚠️ Using environment variables only")
	}
	cfg := config.GlobalConfig

	// =========================
	// CONNECT DATABASE
	// =========================
	if err := database.ConnectDB(); err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal("❌ Database migration failed:", err)
	}

	// =========================
	// INIT REPOSITORIES
	// =========================
	userRepo := repository.NewUserRepository()
	videoRepo := repository.NewVideoRepository()

	// =========================
	// INIT SERVICES
	// =========================
	dict := services.DefaultCategoryDictionary()
	if cfg.CategoryFile != "" {
		loaded, err := services.LoadCategoryDictionary(cfg.CategoryFile)
		if err != nil {
			log.Fatal("❌ Failed to load category dictionary:", err)
		}
		dict = loaded
		log.Printf("✅ Category dictionary loaded from %s (%d categories)", cfg.CategoryFile, len(dict))
	}

	contentClassifier := services.NewContentClassifier(dict)
	audioClassifier := services.NewAudioClassifier()
	assembler := services.NewFeatureAssembler(contentClassifier)

	importer := services.NewImportService(videoRepo)
	analyticsService := services.NewAnalyticsService(videoRepo, contentClassifier, audioClassifier)
	oracle := services.NewPredictionService()
	trendService := services.NewTrendPredictionService(
		contentClassifier,
		audioClassifier,
		assembler,
		analyticsService,
		oracle,
	)

	// =========================
	// SEED FROM SCRAPER CSV
	// =========================
	if count, err := videoRepo.CountVideos(); err == nil && count == 0 {
		if _, statErr := os.Stat(cfg.DatasetCSV); statErr == nil {
			imported, impErr := importer.ImportFile(cfg.DatasetCSV)
			if impErr != nil {
				log.Println("⚠️ Dataset seed failed:", impErr)
			} else {
				log.Printf("✅ Seeded %d videos from %s", imported, cfg.DatasetCSV)
			}
		}
	}

	// =========================
	// INITIAL SNAPSHOT
	// =========================
	if snap, err := analyticsService.Reload(); err != nil {
		log.Println("⚠️ Initial snapshot load failed:", err)
	} else {
		log.Printf("✅ Snapshot ready: %d videos, %d dropped", len(snap.Videos), snap.DroppedRows)
	}

	// =========================
	// SCHEDULED RELOAD (OPTIONAL)
	// =========================
	var scheduler *cron.Cron
	if cfg.ReloadSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.ReloadSchedule, func() {
			if _, err := analyticsService.Reload(); err != nil {
				log.Println("⚠️ Scheduled reload failed:", err)
			}
		})
		if err != nil {
			log.Fatal("❌ Invalid RELOAD_SCHEDULE:", err)
		}
		scheduler.Start()
		log.Printf("✅ Scheduled snapshot reload: %s", cfg.ReloadSchedule)
	}

	// =========================
	// INIT HANDLERS
	// =========================
	authHandler := handlers.NewAuthHandler(userRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	videoHandler := handlers.NewVideoHandler(videoRepo, importer, analyticsService)
	predictionHandler := handlers.NewPredictionHandler(trendService, oracle)

	// =========================
	// ROUTES
	// =========================
	router := routes.SetupRoutes(
		authHandler,
		analyticsHandler,
		videoHandler,
		predictionHandler,
	)

	// =========================
	// PORT
	// =========================
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.ServerPort
	}
	if port == "" {
		port = "8080"
	}

	bindAddr := "0.0.0.0:" + port

	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		log.Println("📊 =======================================")
		log.Println("📊   TIKTOK PREDICTION SYSTEM API")
		log.Println("📊 =======================================")
		log.Printf("📊   Running on: %s", bindAddr)
		log.Println("📊 =======================================")
		log.Println("🚀 Server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("❌ Server error:", err)
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("✅ Server exited properly")
}
