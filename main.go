package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homechef/pkg/config"
	"homechef/pkg/database"
	"homechef/pkg/logger"
	"homechef/pkg/routes"
	"homechef/pkg/services"
	"homechef/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig

	appLog := logger.New(logger.Config{
		Level:        logger.LogLevel(cfg.LogLevel),
		Format:       cfg.LogFormat,
		Output:       "stdout",
		EnableCaller: true,
		Environment:  cfg.Environment,
	})
	defer appLog.Close()

	// Initialize database
	log.Println("🔌 Initializing database connection...")
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	if config.IsDevelopment() {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Printf("⚠️ Failed to run migrations: %v", err)
		}
	}

	// Food images go to GCS when a bucket is configured, local disk otherwise
	var images services.ImageStore
	mediaDir := ""
	if cfg.GCPBucketName != "" {
		gcs, err := services.NewGCSStore(context.Background(), cfg.GCPBucketName, cfg.GoogleApplicationCredentials)
		if err != nil {
			log.Fatalf("Failed to initialize GCP Storage: %v", err)
		}
		defer gcs.Close()
		images = gcs
		log.Println("✅ GCP Storage initialized successfully")
	} else {
		local, err := services.NewLocalStore(cfg.UploadDir, "/media")
		if err != nil {
			log.Fatalf("Failed to initialize local image storage: %v", err)
		}
		images = local
		mediaDir = cfg.UploadDir
		log.Printf("⚠️  GCP_BUCKET_NAME not set, storing images under %s", cfg.UploadDir)
	}

	// Set Gin mode based on environment
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router, err := routes.NewRouter(routes.Options{
		DB:             database.DB,
		Images:         images,
		MediaDir:       mediaDir,
		SessionSecret:  cfg.SessionSecret,
		CookieSecure:   config.CookiesSecure(),
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       utils.TokenTTL(cfg.JWTExpiresIn),
		AllowedOrigins: routes.ParseOrigins(cfg.AllowedOrigins),
		Production:     config.IsProduction(),
		Site:           cfg.Site,
		Log:            appLog,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 %s running in %s mode\n", cfg.Site.Name, cfg.Environment)
		log.Printf("📡 Server listening on http://localhost:%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}
