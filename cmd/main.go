package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tax-document-service/internal/config"
	"tax-document-service/internal/database"
	"tax-document-service/internal/events"
	"tax-document-service/internal/handlers"
	"tax-document-service/internal/repository"
	"tax-document-service/internal/services"

	"github.com/Tesseract-Nexus/go-shared/rbac"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✓ Connected to database")

	// Run automated database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis client (optional - graceful degradation if Redis unavailable)
	var redisClient *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to parse Redis URL: %v", err)
			log.Println("Continuing without Redis caching...")
		} else {
			redisClient = redis.NewClient(opt)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				log.Println("Continuing without Redis caching...")
				redisClient = nil
			} else {
				log.Println("✓ Connected to Redis for caching")
			}
		}
	} else {
		log.Println("REDIS_URL not configured, caching disabled")
	}

	// Shared structured logger for services and events
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	// Initialize NATS events publisher (non-blocking)
	go func() {
		if err := events.InitPublisher(logger); err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			log.Println("✓ NATS events publisher initialized")
		}
	}()

	// Initialize repository
	warehouseRepo := repository.NewWarehouseRepository(db, redisClient)

	// Start warehouse mirror subscriber (optional - requires NATS)
	if subscriber, err := events.NewSubscriber(warehouseRepo, logger); err != nil {
		log.Printf("WARNING: Warehouse sync subscriber disabled: %v", err)
	} else if err := subscriber.Start(); err != nil {
		log.Printf("WARNING: Failed to start warehouse sync subscriber: %v", err)
	} else {
		log.Println("✓ Warehouse sync subscriber started")
	}

	// Initialize services
	addressBuilder := services.NewAddressListBuilder(cfg.Origin, warehouseRepo, logger)
	lineBuilder := services.NewLineItemBuilder(logger)
	refundBuilder := services.NewRefundLineBuilder(logger)
	documentService := services.NewDocumentService(addressBuilder, lineBuilder, refundBuilder, logger)
	addressValidator := services.NewAddressValidator(cfg.AvaTax, logger)

	// Initialize handlers
	documentHandler := handlers.NewDocumentHandler(documentService, addressValidator, warehouseRepo)

	// Initialize RBAC middleware
	staffServiceURL := os.Getenv("STAFF_SERVICE_URL")
	if staffServiceURL == "" {
		staffServiceURL = "http://staff-service:8080"
	}
	rbacMiddleware := rbac.NewMiddlewareWithURL(staffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	// Setup router
	router := setupRouter(documentHandler, db, rbacMiddleware)

	// Start server
	log.Printf("Tax Document Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the HTTP router
func setupRouter(documentHandler *handlers.DocumentHandler, db *gorm.DB, rbacMiddleware *rbac.Middleware) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Tenant-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health checks
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "tax-document-service",
		})
	})

	// Liveness probe - simple check that the service is running
	router.GET("/livez", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness probe - check that DB is accessible
	router.GET("/readyz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{"status": "error", "message": "database not available"})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "error", "message": "database ping failed"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes with RBAC
	v1 := router.Group("/api/v1")
	{
		documents := v1.Group("/tax-documents")
		{
			documents.POST("/build", rbacMiddleware.RequirePermission(rbac.PermissionTaxRead), documentHandler.BuildDocument)
			documents.POST("/validate-address", rbacMiddleware.RequirePermission(rbac.PermissionTaxRead), documentHandler.ValidateAddress)
		}

		// Warehouse mirror CRUD
		warehouses := v1.Group("/warehouses")
		{
			warehouses.GET("", rbacMiddleware.RequirePermission(rbac.PermissionTaxRead), documentHandler.ListWarehouses)
			warehouses.GET("/:code", rbacMiddleware.RequirePermission(rbac.PermissionTaxRead), documentHandler.GetWarehouse)
			warehouses.POST("", rbacMiddleware.RequirePermission(rbac.PermissionTaxCreate), documentHandler.CreateWarehouse)
			warehouses.PUT("/:id", rbacMiddleware.RequirePermission(rbac.PermissionTaxUpdate), documentHandler.UpdateWarehouse)
			warehouses.DELETE("/:id", rbacMiddleware.RequirePermission(rbac.PermissionTaxManage), documentHandler.DeleteWarehouse)
		}
	}

	return router
}
