package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sjperalta/ventas-api/internal/config"
	"github.com/sjperalta/ventas-api/internal/database"
	"github.com/sjperalta/ventas-api/internal/handlers"
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/middleware"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/repository/memory"
	"github.com/sjperalta/ventas-api/internal/scheduler"
	"github.com/sjperalta/ventas-api/internal/services"
	"github.com/sjperalta/ventas-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("Store ready", "driver", cfg.StorageDriver)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(store, worker, services.Options{
		Calendar:         services.NewCalendar(cfg.Location),
		AutoApproveRoles: cfg.AutoApproveRoles,
	})

	// Schedule the daily close
	var rdb *redis.Client
	var locker jobs.Locker
	if cfg.RedisAddress != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, daily close lock will fail until it recovers", "addr", cfg.RedisAddress, "error", err)
		}
		locker = jobs.NewRedisLocker(rdb)
	}
	sched := scheduler.New(cfg.Location, worker)
	if err := sched.Register("daily_close", cfg.DailyCloseCron, jobs.NewDailyCloseJob(svcs.DailyBalance, locker).Job()); err != nil {
		logger.Error("Failed to schedule daily close", "error", err)
		os.Exit(1)
	}
	sched.Start()

	h := handlers.NewHandlers(svcs, worker)
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "timezone", cfg.BusinessTimezone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop ticks before draining the worker they feed
	sched.Stop()
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Warn("Failed to close store", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// openStore connects the configured storage driver. The memory driver is
// seeded with a small demo catalog.
func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return seedDemo(memory.New()), nil
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("Database migrated")
	}
	return repository.NewStore(db), nil
}

func seedDemo(store *memory.Store) *memory.Store {
	store.PutCustomer(models.Customer{Name: "Alice Kyaw", PhoneNumber: "0911111111", Status: "ACTIVE"})
	store.PutCustomer(models.Customer{Name: "Mya Than", PhoneNumber: "0922222222", Status: "ACTIVE"})
	lipstick := store.PutProduct(models.Product{Name: "Rose Lipstick", Category: "Makeup", UnitPrice: decimal.RequireFromString("15.50"), IsActive: true})
	gel := store.PutProduct(models.Product{Name: "Aloe Skin Gel", Category: "Skincare", UnitPrice: decimal.RequireFromString("22.75"), IsActive: true})
	store.PutEmployee(models.Employee{Name: "Ko Ko", Position: "Delivery"})
	store.PutInventory(lipstick.ID, 120)
	store.PutInventory(gel.ID, 80)
	return store
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	h.Register(router.Group("/api/v1"))
	return router
}
