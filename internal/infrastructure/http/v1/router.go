// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"homestock/internal/domain/item"
	"homestock/internal/domain/location"
	"homestock/internal/domain/product"
	"homestock/internal/infrastructure/http/v1/handlers"
	"homestock/internal/infrastructure/http/v1/middleware"
	"homestock/internal/infrastructure/objectstore"
	"homestock/pkg/logger"
)

// Rate limit formats: write-heavy item endpoints and the external
// product-search proxy, protecting the upstream catalog from abuse.
const (
	itemWriteRate     = "90-M"
	productSearchRate = "2-M"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger      *logger.Logger
	Pool        *pgxpool.Pool
	Items       *item.Service
	Locations   *location.Service
	Lookup      product.Lookup
	ObjectStore *objectstore.Store
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()
	itemHandler := handlers.NewItemHandler(base, cfg.Items)
	locationHandler := handlers.NewLocationHandler(base, cfg.Locations)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)

	writeLimit := middleware.RateLimit(itemWriteRate)

	api := router.Group("/api")
	{
		api.GET("/heartbeat", healthHandler.Heartbeat)
		api.GET("/ready", healthHandler.Ready)

		items := api.Group("/items")
		{
			items.GET("", itemHandler.List)
			items.GET("/search/:term", itemHandler.Search)
			items.GET("/:id", itemHandler.Get)
			items.POST("", writeLimit, itemHandler.Create)
			items.PUT("/:id", writeLimit, itemHandler.Update)
			items.PATCH("/:id", itemHandler.Move)
			items.DELETE("/:id", itemHandler.Delete)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", locationHandler.List)
			locations.POST("", locationHandler.Create)
			locations.GET("/:id", locationHandler.Get)
			locations.GET("/:id/shelf/:shelf", locationHandler.GetShelfDetail)
		}

		if cfg.Lookup != nil {
			productHandler := handlers.NewProductHandler(base, cfg.Lookup)
			api.GET("/off/search/:term", middleware.RateLimit(productSearchRate), productHandler.Search)
		}

		if cfg.ObjectStore != nil {
			storageHandler := handlers.NewStorageHandler(base, cfg.ObjectStore)
			s3 := api.Group("/s3")
			{
				s3.GET("/presign", storageHandler.PresignUpload)
				s3.GET("/get/:filename", storageHandler.PresignDownload)
			}
		}
	}

	return router
}
