package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pronounce/internal/api"
	"pronounce/internal/audio"
	"pronounce/internal/config"
	"pronounce/internal/metrics"
	"pronounce/internal/storage"
	"pronounce/internal/stt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "Path to optional YAML configuration file")
	flag.Parse()

	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewStore(cfg.RecordingsDir)
	if err != nil {
		log.Fatalf("Failed to prepare recordings directory: %v", err)
	}

	normalizer, err := audio.NewFFmpegNormalizer(cfg.FFmpegCommand, audio.DefaultFormat, cfg.ConvertTimeout)
	if err != nil {
		log.Fatalf("Failed to configure audio conversion: %v", err)
	}

	provider, err := stt.CreateProvider(cfg.STT, audio.DefaultFormat.SampleRate)
	if err != nil {
		log.Fatalf("Failed to create STT provider: %v", err)
	}
	provider = stt.WithRetry(provider, cfg.STT.MaxRetries, cfg.STT.Timeout)
	log.Printf("STT provider initialized: %s (timeout %v, retries %d)", provider.Name(), cfg.STT.Timeout, cfg.STT.MaxRetries)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(corsMiddleware())

	api.RegisterRoutes(r, api.NewHandler(store, normalizer, provider, metrics.New(), cfg.MaxUploadBytes))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Pronunciation backend running on :%s (recordings in %s)", cfg.Port, store.Root())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// corsMiddleware adds CORS headers for browser clients served elsewhere
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
