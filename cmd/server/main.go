package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	productionapp "github.com/mise/backend/internal/application/production"
	purchasingapp "github.com/mise/backend/internal/application/purchasing"
	stockapp "github.com/mise/backend/internal/application/stock"
	"github.com/mise/backend/internal/infrastructure/config"
	"github.com/mise/backend/internal/infrastructure/event"
	"github.com/mise/backend/internal/infrastructure/logger"
	"github.com/mise/backend/internal/infrastructure/persistence"
	"github.com/mise/backend/internal/interfaces/http/handler"
	"github.com/mise/backend/internal/interfaces/http/middleware"
	"github.com/mise/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Mise Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	pendingRepo := persistence.NewGormPendingDeliveryRepository(db.DB)
	manualRepo := persistence.NewGormManualEntryRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log,
		event.WithBufferSize(cfg.Event.BufferSize),
		event.WithHandlerTimeout(cfg.Event.HandlerTimeout),
	)

	// Register event handlers
	// Below-minimum and integrity-fault events -> operational alerts
	alertHandler := stockapp.NewStockAlertHandler(log)
	eventBus.Subscribe(alertHandler, alertHandler.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("stock_alert_events", alertHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	movementService := stockapp.NewMovementService(txScope, log)
	movementService.SetEventPublisher(eventBus)

	planningService := purchasingapp.NewPlanningService(
		stockRepo, productionRepo, pendingRepo, manualRepo, scheduleRepo, log,
	)
	planningService.SetEventPublisher(eventBus)

	runService := productionapp.NewRunService(productionRepo, log)

	// Initialize HTTP handlers
	stockHandler := handler.NewStockHandler(movementService)
	purchasingHandler := handler.NewPurchasingHandler(planningService, cfg.Purchasing)
	productionHandler := handler.NewProductionHandler(runService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Stock domain (ledger items, batches, movements)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/items", stockHandler.CreateItem)
	stockRoutes.GET("/items", stockHandler.ListItems)
	stockRoutes.GET("/items/below-minimum", stockHandler.ListBelowMinimum)
	stockRoutes.GET("/items/:id", stockHandler.GetItem)
	stockRoutes.PUT("/items/:id/thresholds", stockHandler.UpdateThresholds)
	stockRoutes.GET("/items/:id/batches", stockHandler.ListBatches)
	stockRoutes.POST("/items/:id/batches", stockHandler.AddBatch)
	stockRoutes.GET("/items/:id/movements", stockHandler.ListMovements)
	stockRoutes.GET("/items/:id/deduction-plan", stockHandler.SuggestDeductions)
	stockRoutes.POST("/movements", stockHandler.RecordMovement)

	// Purchasing domain (purchase list, pending deliveries, manual list, schedule)
	purchasingRoutes := router.NewDomainGroup("purchasing", "/purchasing")
	purchasingRoutes.POST("/compute", purchasingHandler.ComputePurchaseList)
	purchasingRoutes.POST("/orders", purchasingHandler.MarkOrdered)
	purchasingRoutes.GET("/pending", purchasingHandler.ListPending)
	purchasingRoutes.POST("/pending/:id/cancel", purchasingHandler.CancelPending)
	purchasingRoutes.POST("/manual", purchasingHandler.AddManualEntry)
	purchasingRoutes.GET("/manual", purchasingHandler.ListManual)
	purchasingRoutes.DELETE("/manual/:item_id", purchasingHandler.RemoveManualEntry)
	purchasingRoutes.GET("/schedule", purchasingHandler.GetSchedule)
	purchasingRoutes.PUT("/schedule", purchasingHandler.UpdateSchedule)
	purchasingRoutes.GET("/schedule/next", purchasingHandler.NextPurchaseDay)

	// Production domain (runs and demand projection)
	productionRoutes := router.NewDomainGroup("production", "/production")
	productionRoutes.POST("/runs", productionHandler.CreateRun)
	productionRoutes.GET("/runs", productionHandler.ListRuns)
	productionRoutes.GET("/runs/:id", productionHandler.GetRun)
	productionRoutes.POST("/runs/:id/start", productionHandler.StartRun)
	productionRoutes.POST("/runs/:id/complete", productionHandler.CompleteRun)
	productionRoutes.POST("/runs/:id/cancel", productionHandler.CancelRun)
	productionRoutes.DELETE("/runs/:id", productionHandler.DeleteRun)
	productionRoutes.GET("/demand", productionHandler.ProjectDemand)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(stockRoutes).
		Register(purchasingRoutes).
		Register(productionRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
