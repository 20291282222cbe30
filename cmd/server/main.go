// Package main is the entry point for the homestock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"homestock/internal/domain/item"
	"homestock/internal/domain/location"
	"homestock/internal/domain/product"
	"homestock/internal/infrastructure/cache"
	v1 "homestock/internal/infrastructure/http/v1"
	"homestock/internal/infrastructure/lookup/openfoodfacts"
	"homestock/internal/infrastructure/objectstore"
	"homestock/internal/infrastructure/storage/postgres"
	"homestock/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting homestock server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := postgres.NewItemRepo(txManager)
	locationRepo := postgres.NewLocationRepo(txManager)
	shelfRepo := postgres.NewShelfRepo(txManager)

	changeLog, err := postgres.NewChangeLog(txManager)
	if err != nil {
		log.Fatalw("failed to create change log", "error", err)
	}

	// --- Product catalog lookup ---
	var lookup product.Lookup
	if getEnv("PRODUCT_LOOKUP_ENABLED", "true") == "true" {
		lookupCfg := openfoodfacts.DefaultConfig()
		lookupCfg.BaseURL = getEnv("OFF_BASE_URL", openfoodfacts.DefaultBaseURL)
		lookupCfg.Timeout = getEnvDuration("OFF_TIMEOUT", 5*time.Second)
		lookup = cache.NewCachedLookup(
			openfoodfacts.New(lookupCfg),
			getEnvDuration("PRODUCT_LOOKUP_CACHE_TTL", time.Hour),
		)
	}

	// --- Object storage ---
	var photoStore *objectstore.Store
	if bucket := getEnv("S3_BUCKET", ""); bucket != "" {
		photoStore, err = objectstore.New(ctx, objectstore.Config{
			Bucket:    bucket,
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			URLTTL:    getEnvDuration("S3_URL_TTL", 15*time.Minute),
		})
		if err != nil {
			log.Fatalw("failed to create object store", "error", err)
		}
		log.Infow("object storage configured", "bucket", bucket)
	} else {
		log.Warn("S3_BUCKET not set, photo storage disabled")
	}

	// --- Services ---
	var photos item.PhotoStore
	if photoStore != nil {
		photos = photoStore
	}
	itemService := item.NewService(itemRepo, shelfRepo, txManager, lookup, photos, changeLog)
	locationService := location.NewService(locationRepo, shelfRepo, itemRepo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Pool:        pool.Unwrap(),
		Items:       itemService,
		Locations:   locationService,
		Lookup:      lookup,
		ObjectStore: photoStore,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
