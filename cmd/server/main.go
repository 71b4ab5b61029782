package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"assistall/internal/app"
	"assistall/internal/config"
	"assistall/internal/handler"
	internalRedis "assistall/internal/redis"
	"assistall/internal/repository/postgres"
	"assistall/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", zap.Error(err))
			nrApp = nil
		} else {
			log.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	if err := app.Migrate(ctx, db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	server, housekeeper := wireServer(db, redisClient, nrApp, cfg, log)

	// Background pruning of stale pending rides.
	hkCtx, hkCancel := context.WithCancel(context.Background())
	defer hkCancel()
	go housekeeper.Run(hkCtx)

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	hkCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// housekeeping job.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *zap.Logger) (*http.Server, *service.Housekeeper) {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	feedCache := internalRedis.NewFeedCache(redisClient)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	rideRepo := postgres.NewRideRepository(db)

	// Services.
	notificationService := service.NewNotificationService(log)
	rideService := service.NewRideService(rideRepo, lockStore, feedCache, notificationService)
	feedService := service.NewFeedService(rideRepo, feedCache, cfg.Feed.PendingWindow)
	housekeeper := service.NewHousekeeper(rideRepo, log, cfg.Housekeeping.PendingRetention, cfg.Housekeeping.PruneInterval)

	// Handlers.
	userHandler := handler.NewUserHandler(userRepo)
	rideHandler := handler.NewRideHandler(rideService, feedService)

	router := app.NewRouter(app.RouterDeps{
		UserHandler: userHandler,
		RideHandler: rideHandler,
		RedisClient: redisClient,
		NewRelicApp: nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, housekeeper
}
