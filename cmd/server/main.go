package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irespond/internal/config"
	"irespond/internal/handlers"
	"irespond/internal/identity"
	"irespond/internal/middleware"
	"irespond/internal/realtime"
	"irespond/internal/repositories/mongodb"
	"irespond/internal/services"
	"irespond/pkg/cache"
	"irespond/pkg/changefeed"
	"irespond/pkg/database"
	"irespond/pkg/logger"
	"irespond/pkg/push"
	"irespond/pkg/storage"
	"irespond/pkg/websocket"
	"irespond/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if config.IsDevelopment() {
		logFormat = "text"
	}
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: logFormat,
		Output: "stdout",
		Colors: config.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Database
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Repositories
	incidentRepo := mongodb.NewIncidentRepository(db.Database)
	profileRepo := mongodb.NewProfileRepository(db.Database)
	stationRepo := mongodb.NewStationRepository(db.Database)
	historyRepo := mongodb.NewStatusHistoryRepository(db.Database)
	updateRepo := mongodb.NewIncidentUpdateRepository(db.Database)
	unitReportRepo := mongodb.NewUnitReportRepository(db.Database)
	draftRepo := mongodb.NewFinalReportDraftRepository(db.Database)
	finalReportRepo := mongodb.NewFinalReportRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database, redisCache)

	// Services
	ids := identity.ContextProvider{}
	notificationService := services.NewNotificationService(notificationRepo, ids, log)
	incidentService := services.NewIncidentService(incidentRepo, profileRepo, historyRepo, updateRepo, notificationService, ids, log)
	reportService := services.NewReportService(unitReportRepo, draftRepo, finalReportRepo, updateRepo, ids, log)
	profileService := services.NewProfileService(profileRepo, stationRepo, ids, log)

	// Realtime delivery
	pushProvider := newPushProvider(cfg.Push, log)
	storageProvider, err := newStorageProvider(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	wsHandler := websocket.NewHandler()
	feed := changefeed.NewMongoClient(db.Database)
	gateway := realtime.NewGateway(feed, notificationRepo, profileRepo, wsHandler, pushProvider, log)
	defer gateway.Close()

	// Handlers
	incidentHandler := handlers.NewIncidentHandler(incidentService)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, gateway)
	profileHandler := handlers.NewProfileHandler(profileService)
	mediaHandler := handlers.NewMediaHandler(storageProvider)
	realtimeHandler := handlers.NewRealtimeHandler(gateway, wsHandler)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	v1 := router.Group("/api/v1")
	{
		routes.SetupIncidentRoutes(v1, cfg.Security.JWTSecret, incidentHandler, reportHandler, mediaHandler)
		routes.SetupReportRoutes(v1, cfg.Security.JWTSecret, reportHandler)
		routes.SetupNotificationRoutes(v1, cfg.Security.JWTSecret, notificationHandler)
		routes.SetupProfileRoutes(v1, cfg.Security.JWTSecret, profileHandler)
		routes.SetupRealtimeRoutes(v1, cfg.Security.JWTSecret, realtimeHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting %s on port %d", cfg.App.Name, cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
}

// newPushProvider builds the configured push backend. A nil provider means
// push delivery is disabled; the realtime gateway tolerates that.
func newPushProvider(cfg *config.PushConfig, log *logger.Logger) push.PushProvider {
	switch cfg.Provider {
	case "fcm":
		if cfg.FCM.Credentials == "" {
			log.Warn("FCM credentials not configured, push notifications disabled")
			return nil
		}
		provider, err := push.NewFCMProvider(cfg.FCM.Credentials)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize FCM, push notifications disabled")
			return nil
		}
		return provider
	case "apns":
		provider, err := push.NewAPNSProvider(cfg.APNS.KeyFile, cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.BundleID, cfg.APNS.Production)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize APNS, push notifications disabled")
			return nil
		}
		return provider
	default:
		return nil
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "aws":
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "gcp":
		return storage.NewGCPStorage(cfg.GCP.ProjectID, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}
