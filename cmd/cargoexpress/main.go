package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cargoexpress/cargoexpress/api"
	"github.com/cargoexpress/cargoexpress/cache"
	"github.com/cargoexpress/cargoexpress/config"
	"github.com/cargoexpress/cargoexpress/dashboard"
	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/health"
	"github.com/cargoexpress/cargoexpress/janitor"
	"github.com/cargoexpress/cargoexpress/logger"
	"github.com/cargoexpress/cargoexpress/notify"
	"github.com/cargoexpress/cargoexpress/order"
	"github.com/cargoexpress/cargoexpress/persistence"
	"github.com/cargoexpress/cargoexpress/ratelimit"
)

// Version is set at build time.
var Version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	logger.Log.Info("Starting CargoExpress backend",
		zap.String("version", Version),
		zap.Int("port", cfg.Port),
		zap.String("db_type", cfg.DBType),
	)

	repo, err := persistence.Open(cfg.DBType, cfg.DSN, nil, !cfg.SkipAutoMigrate)
	if err != nil {
		logger.Log.Fatal("failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	var (
		kv          domain.KeyValueStore
		sink        domain.NotificationSink
		limiter     ratelimit.Limiter
		sweepers    []janitor.Sweeper
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		kv = cache.NewRedisStore(redisClient, "cargo:")
		sink = notify.NewRedisSink(redisClient)
		limiter = ratelimit.NewRedisLimiter(redisClient, "cargo:ratelimit:")
	} else {
		logger.Log.Warn("REDIS_ADDR is empty, using in-process cache and limiter")
		mem := cache.NewMemoryStore()
		kv = mem
		sweepers = append(sweepers, mem)
		sink = notify.NewMemorySink()
		limiter = ratelimit.NewMemoryLimiter()
	}

	accessManager := dashboard.NewManager(repo, repo, kv, sink, cfg.DashboardBaseURL)
	orderManager := order.NewManager(repo, repo, kv, sink)

	healthManager := health.NewManager(Version, health.WithTimeout(5*time.Second))
	sqlDB, err := repo.DB().DB()
	if err != nil {
		logger.Log.Fatal("failed to access sql pool", zap.Error(err))
	}
	healthManager.Register(health.NewDatabaseChecker(cfg.DBType, sqlDB.PingContext))
	if redisClient != nil {
		healthManager.Register(health.NewRedisChecker(redisClient))
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go janitor.New(cfg.JanitorInterval, sweepers...).Run(janitorCtx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Log.Info("request",
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	e.GET("/healthz", healthManager.LiveHandler())
	e.GET("/ready", healthManager.ReadyHandler())

	handler := api.NewHandler(accessManager, orderManager, limiter)
	handler.RegisterRoutes(e.Group("/api/v1"))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown failed", zap.Error(err))
	}
}
