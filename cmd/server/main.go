package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"adminhub-backend-go/internal/api"
	"adminhub-backend-go/internal/config"
	"adminhub-backend-go/internal/core"
	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/firebase"
	"adminhub-backend-go/internal/identity"
	"adminhub-backend-go/internal/middleware"
	"adminhub-backend-go/pkg/cache"
	"adminhub-backend-go/pkg/events"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize Firebase Admin SDK
	fbApp, err := firebase.InitApp(ctx, cfg)
	if err != nil {
		logger.Fatal("Error initializing Firebase Admin SDK", zap.Error(err))
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		logger.Fatal("Error getting Firebase Auth client", zap.Error(err))
	}

	fsClient, err := fbApp.Firestore(ctx)
	if err != nil {
		logger.Fatal("Error getting Firestore client", zap.Error(err))
	}
	defer fsClient.Close()

	store := db.NewFirestoreStore(fsClient)
	idp := identity.NewFirebaseProvider(fbAuth)

	// Optional integrations: the server runs without them.
	var statsCache cache.Cache
	if cfg.RedisAddr != "" {
		statsCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("Redis unavailable, stats caching disabled", zap.Error(err))
			statsCache = nil
		}
	}

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewRabbitMQPublisher(events.NewRabbitMQPublisherConfig{URL: cfg.AMQPURL})
		if err != nil {
			logger.Warn("RabbitMQ unavailable, audit events will not be published", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	recorder := core.NewAuditRecorder(store, publisher, cfg.AuditQueue, logger)
	guard := core.NewGuard(store, idp, recorder, logger)
	users := core.NewUserAdminService(guard, store, idp, recorder, logger)
	licenses := core.NewLicenseService(guard, store, recorder, logger)
	maintenance := core.NewMaintenanceService(guard, store, recorder, logger)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	var origins []string
	if cfg.AllowedOrigins != "" {
		for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}
	router.Use(middleware.CORSMiddleware(origins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userHandler := api.NewUserHandler(users, statsCache, logger)
	licenseHandler := api.NewLicenseHandler(licenses, statsCache, logger)
	maintenanceHandler := api.NewMaintenanceHandler(maintenance, logger)
	statsHandler := api.NewStatsHandler(users, guard, statsCache, logger)

	apiV1 := router.Group("/api/v1")
	api.RegisterRoutes(apiV1, userHandler, licenseHandler, maintenanceHandler, statsHandler)

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("mode", gin.Mode()))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
