package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"foundhub/database"
	"foundhub/internal/cache"
	"foundhub/internal/config"
	"foundhub/internal/http-api/handler"
	"foundhub/internal/http-api/middleware"
	"foundhub/internal/http-api/models"
	"foundhub/internal/http-api/repository"
	"foundhub/internal/http-api/service"
	"foundhub/internal/websocket"
)

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open GORM DB (used by the repositories)
	gdb, err := database.OpenGorm(cfg, logger)
	if err != nil {
		log.Fatalf("failed to open gorm DB: %v", err)
	}

	// Auto-migrate models
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Item{},
		&models.Notification{},
	); err != nil {
		log.Printf("warning: auto-migrate failed (continuing): %v", err)
	}

	// pgx pool for the reports aggregations
	pool, err := database.ConnectPool(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	// Redis for unread counts. Non-fatal: without it every count read goes
	// to the database.
	unread, err := cache.NewUnreadCounter(cfg.RedisAddr, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Warn("redis unavailable, unread counts uncached", "error", err)
		unread = cache.NewNoopUnreadCounter()
	}
	defer unread.Close()

	photos, err := service.NewPhotoStorage(cfg.UploadDir, cfg.UploadMaxSize)
	if err != nil {
		log.Fatalf("failed to init photo storage: %v", err)
	}

	// WebSocket hub
	hub := websocket.NewHub(logger)
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	// Create repositories
	userRepo := repository.NewUserRepository(gdb)
	refreshTokenRepo := repository.NewRefreshTokenRepository(gdb)
	categoryRepo := repository.NewCategoryRepository(gdb)
	itemRepo := repository.NewItemRepository(gdb)
	claimRepo := repository.NewClaimRepository(gdb)
	notificationRepo := repository.NewNotificationRepository(gdb)
	reportRepo := repository.NewReportRepository(pool)

	// Create services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	categoryService := service.NewCategoryService(categoryRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo)
	claimService := service.NewClaimService(itemRepo, claimRepo, notificationRepo, userRepo, hub, unread)
	notificationService := service.NewNotificationService(notificationRepo, unread)
	reportService := service.NewReportService(reportRepo)

	// Setup Gin
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": hub.TotalConnections(),
		})
	})

	r.Static("/uploads", photos.Dir())

	authMW := middleware.AuthMiddleware(authService)

	api := r.Group("/api")
	{
		handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

		categories := api.Group("/categories")
		categories.Use(authMW)
		handler.NewCategoryHandler(categoryService).RegisterRoutes(categories)

		items := api.Group("/items")
		items.Use(authMW)
		handler.NewItemHandler(itemService, photos).RegisterRoutes(items)
		handler.NewClaimHandler(claimService).RegisterRoutes(items,
			middleware.PerUserRateLimit(cfg.ClaimRatePerMinute, cfg.ClaimRateBurst))

		notifications := api.Group("/notifications")
		notifications.Use(authMW)
		handler.NewNotificationHandler(notificationService).RegisterRoutes(notifications)

		reportHandler := handler.NewReportHandler(reportService)
		reports := api.Group("/reports")
		reports.Use(authMW)
		reportHandler.RegisterRoutes(reports)

		// Landing-page KPIs are public.
		api.GET("/stats/home", reportHandler.HomeStats)
	}

	r.GET("/ws", authMW, websocket.WSHandler(hub))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
