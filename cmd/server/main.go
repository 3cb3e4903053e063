package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appaccounting "github.com/dealerdesk/backend/internal/application/accounting"
	appdealership "github.com/dealerdesk/backend/internal/application/dealership"
	"github.com/dealerdesk/backend/internal/application/valuation"
	"github.com/dealerdesk/backend/internal/infrastructure/auth"
	"github.com/dealerdesk/backend/internal/infrastructure/cache"
	"github.com/dealerdesk/backend/internal/infrastructure/config"
	"github.com/dealerdesk/backend/internal/infrastructure/crypto"
	"github.com/dealerdesk/backend/internal/infrastructure/logger"
	"github.com/dealerdesk/backend/internal/infrastructure/persistence"
	"github.com/dealerdesk/backend/internal/infrastructure/poweroffice"
	"github.com/dealerdesk/backend/internal/infrastructure/scheduler"
	"github.com/dealerdesk/backend/internal/infrastructure/vehicle"
	"github.com/dealerdesk/backend/internal/interfaces/http/handler"
	"github.com/dealerdesk/backend/internal/interfaces/http/middleware"
	"github.com/dealerdesk/backend/internal/interfaces/http/router"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dealerdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the OAuth state store and idempotency keys when enabled.
	// Without it both fall back to in-memory stores, which is fine for a
	// single instance.
	var stateStore cache.StateStore
	var idempotencyStore cache.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		stateStore = cache.NewRedisStateStore(redisClient, "")
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "")
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		inMemStates := cache.NewInMemoryStateStore()
		defer inMemStates.Close()
		stateStore = inMemStates
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}

	// Token encryption for stored OAuth credentials
	tokenCipher, err := crypto.NewTokenCipher(cfg.Accounting.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	// External clients
	provider, err := poweroffice.NewAdapter(&poweroffice.Config{
		APIBaseURL:     cfg.Accounting.APIBaseURL,
		AuthBaseURL:    cfg.Accounting.AuthBaseURL,
		ClientID:       cfg.Accounting.ClientID,
		ClientSecret:   cfg.Accounting.ClientSecret,
		RedirectURL:    cfg.Accounting.RedirectURL,
		Scope:          cfg.Accounting.Scope,
		TimeoutSeconds: cfg.Accounting.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize accounting provider", zap.Error(err))
	}

	registry, err := vehicle.NewRegistryClient(&vehicle.Config{
		BaseURL:        cfg.Vehicle.RegistryBaseURL,
		APIKey:         cfg.Vehicle.APIKey,
		TimeoutSeconds: cfg.Vehicle.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize vehicle registry client", zap.Error(err))
	}

	// Repositories
	carRepo := persistence.NewGormCarRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB, tokenCipher)
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	linkRepo := persistence.NewGormLinkRepository(db.DB)
	jobRepo := persistence.NewGormSyncJobRepository(db.DB)
	logRepo := persistence.NewGormSyncLogRepository(db.DB)

	// Application services
	carService := appdealership.NewCarService(carRepo, registry)
	customerService := appdealership.NewCustomerService(customerRepo)
	contractService := appdealership.NewContractService(contractRepo, carRepo, customerRepo, log)
	estimatorService := valuation.NewEstimatorService()
	syncService := appaccounting.NewSyncService(
		provider, settingsRepo, mappingRepo, linkRepo, jobRepo, logRepo,
		contractRepo, stateStore, cfg.Sync.MaxAttempts, log.Named("sync"),
	)
	jobProcessor := appaccounting.NewJobProcessor(
		provider, settingsRepo, mappingRepo, linkRepo, jobRepo, logRepo,
		contractRepo, customerRepo, log.Named("sync"),
	)

	// Background sync poller
	if cfg.Sync.PollerEnabled {
		pollerConfig := scheduler.SyncPollerConfig{
			Enabled:      cfg.Sync.PollerEnabled,
			PollInterval: cfg.Sync.PollInterval,
			BatchSize:    cfg.Sync.BatchSize,
			JobTimeout:   cfg.Sync.JobTimeout,
		}
		poller, err := scheduler.NewSyncPoller(pollerConfig, jobRepo, jobProcessor, log.Named("poller"))
		if err != nil {
			log.Fatal("Invalid sync poller configuration", zap.Error(err))
		}
		if err := poller.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync poller", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := poller.Stop(stopCtx); err != nil {
				log.Error("Error stopping sync poller", zap.Error(err))
			}
		}()
	}

	// HTTP
	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpLog := log.Named("http")
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(httpLog))
	engine.Use(logger.GinMiddleware(httpLog))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	accountingHandler := handler.NewAccountingHandler(syncService)

	r := router.New(engine,
		middleware.JWTAuth(jwtService),
		middleware.Idempotency(idempotencyStore, idempotencyTTL, httpLog),
	)
	r.Register(
		handler.NewCarHandler(carService),
		handler.NewCustomerHandler(customerService),
		handler.NewContractHandler(contractService),
		handler.NewValuationHandler(estimatorService),
		accountingHandler,
	)
	r.Setup()

	handler.NewHealthHandler(cfg.App.Name).RegisterPublicRoutes(engine)
	accountingHandler.RegisterPublicRoutes(engine)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
