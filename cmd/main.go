package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"merchandising-service/internal/config"
	"merchandising-service/internal/events"
	"merchandising-service/internal/handlers"
	"merchandising-service/internal/middleware"
	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"
	"merchandising-service/internal/services"
)

// @title Merchandising Service API
// @version 1.0
// @description Catalog variant and discount management service
// @BasePath /api/v1
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Redis is optional; without it product reads just skip the cache.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Invalid REDIS_URL, continuing without cache")
		} else {
			redisClient = redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.WithError(err).Warn("Redis unreachable, continuing without cache")
				redisClient = nil
			}
			cancel()
		}
	}

	// NATS is optional; without it events are simply not published.
	publisher, err := events.NewPublisher(cfg.NATSURL, logger)
	if err != nil {
		logger.WithError(err).Warn("NATS unreachable, continuing without event publishing")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	catalogRepo := repository.NewCatalogRepository(db, redisClient)
	discountRepo := repository.NewDiscountRepository(db)
	userRepo := repository.NewUserRepository(db)
	uow := repository.NewGormUnitOfWork(db, redisClient)
	gate := services.NewIdentityGate(userRepo)

	variantService := services.NewVariantService(uow, gate, logger)
	discountService := services.NewDiscountService(uow, gate, logger)

	productHandler := handlers.NewProductHandler(catalogRepo, variantService, publisher, logger, cfg)
	discountHandler := handlers.NewDiscountHandler(discountRepo, discountService, publisher, logger, cfg)
	healthHandler := handlers.NewHealthHandler(db, redisClient, publisher)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.GET("/discounts", discountHandler.ListDiscounts)
		v1.GET("/discounts/:id", discountHandler.GetDiscount)
		v1.GET("/discount-codes/:code", discountHandler.GetDiscountCodeByCode)

		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWTSecret))
		authed.Use(middleware.RequireRole(models.RoleManager))
		{
			authed.POST("/products", productHandler.CreateProduct)
			authed.PUT("/products/:id", productHandler.UpdateProduct)
			authed.DELETE("/products/:id", productHandler.DeleteProduct)
			authed.POST("/products/:id/variants", productHandler.AddVariants)
			authed.PATCH("/products/:id/variants/:variantId", productHandler.UpdateVariant)

			authed.POST("/discounts", discountHandler.CreateDiscount)
			authed.POST("/discounts/:id/codes", discountHandler.AddDiscountCode)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting merchandising service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
