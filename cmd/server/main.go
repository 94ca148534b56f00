package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accessapp "github.com/fibreflow/procurement/internal/application/access"
	procapp "github.com/fibreflow/procurement/internal/application/procurement"
	stockapp "github.com/fibreflow/procurement/internal/application/stock"
	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/fibreflow/procurement/internal/infrastructure/auth"
	"github.com/fibreflow/procurement/internal/infrastructure/cache"
	"github.com/fibreflow/procurement/internal/infrastructure/config"
	"github.com/fibreflow/procurement/internal/infrastructure/logger"
	"github.com/fibreflow/procurement/internal/infrastructure/notification"
	"github.com/fibreflow/procurement/internal/infrastructure/persistence"
	"github.com/fibreflow/procurement/internal/interfaces/http/handler"
	"github.com/fibreflow/procurement/internal/interfaces/http/middleware"
	"github.com/fibreflow/procurement/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting procurement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

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

	// Redis backs the shared permission cache tier and the token
	// blacklist. When disabled or unreachable both degrade to in-memory.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, falling back to in-memory caches", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			log.Info("Redis connected", zap.String("addr", cfg.Redis.RedisAddr()))
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing Redis client", zap.Error(err))
				}
			}()
		}
		cancel()
	}

	// Initialize repositories
	positionRepo := persistence.NewGormStockPositionRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	drumRepo := persistence.NewGormCableDrumRepository(db.DB)
	boqRepo := persistence.NewGormBOQRepository(db.DB)
	rfqRepo := persistence.NewGormRFQRepository(db.DB)
	grantRepo := persistence.NewGormGrantRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	supplierLookup := persistence.NewGormSupplierLookup(db.DB)

	// Stock mutations run inside one transaction scope so position,
	// movement and drum rows commit together
	txScope := persistence.NewGormStockTransactionScope(db.DB)

	// Access caches and service
	cacheConfig := access.CacheConfig{
		GrantTTL:        cfg.Cache.GrantTTL,
		PermissionTTL:   cfg.Cache.PermissionTTL,
		L1TTL:           cfg.Cache.L1TTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	}
	cacheOpts := []cache.FactoryOption{cache.WithLogger(log)}
	if redisClient != nil {
		cacheOpts = append(cacheOpts, cache.WithRedis(redisClient))
	}
	caches := cache.NewFactory(cacheConfig, cacheOpts...)

	accessService := accessapp.NewService(grantRepo, caches.GrantCache(), caches.PermissionCache(),
		accessapp.WithCacheConfig(cacheConfig),
		accessapp.WithLogger(log),
	)
	defer func() {
		if err := accessService.Close(); err != nil {
			log.Error("Error closing access caches", zap.Error(err))
		}
	}()

	// Initialize application services
	stockCommands := stockapp.NewCommandService(positionRepo, txScope, auditRepo, log)
	stockQueries := stockapp.NewQueryService(positionRepo, movementRepo)
	movementService := stockapp.NewMovementService(txScope, auditRepo, log)
	drumService := stockapp.NewDrumService(drumRepo, txScope, auditRepo, log)
	boqService := procapp.NewBOQService(boqRepo, auditRepo, log)
	rfqService := procapp.NewRFQService(rfqRepo, supplierLookup,
		notification.NewLogNotifier(log), auditRepo, log)

	// JWT authentication and token revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var revocations auth.RevocationStore
	if redisClient != nil {
		revocations = auth.NewRedisRevocationStore(redisClient)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}

	// Initialize HTTP handlers
	positionHandler := handler.NewStockPositionHandler(stockCommands, stockQueries)
	movementHandler := handler.NewStockMovementHandler(movementService, stockQueries)
	drumHandler := handler.NewCableDrumHandler(drumService)
	boqHandler := handler.NewBOQHandler(boqService)
	rfqHandler := handler.NewRFQHandler(rfqService)
	auditHandler := handler.NewAuditHandler(auditRepo)
	systemHandler := handler.NewSystemHandler(db, redisClient, version)

	// Mutating routes demand an RBAC permission on top of the
	// method-level access check
	guard := handler.PermissionGuard(func(permission string) gin.HandlerFunc {
		return middleware.RequirePermission(accessService, permission)
	})
	positionHandler.UseGuard(guard)
	movementHandler.UseGuard(guard)
	drumHandler.UseGuard(guard)
	boqHandler.UseGuard(guard)
	rfqHandler.UseGuard(guard)

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

	// Global middleware: request ID, panic recovery, request logging,
	// security headers, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// API middleware: JWT auth, body size limit, optional rate limiting.
	// System probes mount outside this chain.
	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: revocations,
			Logger:      log,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(apiMiddleware...),
		router.WithProjectMiddleware(middleware.ProjectAccess(accessService)),
	)

	r.RegisterSystem(systemHandler)
	r.RegisterProject(positionHandler).
		RegisterProject(movementHandler).
		RegisterProject(drumHandler).
		RegisterProject(boqHandler).
		RegisterProject(rfqHandler).
		RegisterProject(auditHandler)

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
