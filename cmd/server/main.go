package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/config"
	"propertyhub/listingsync/internal/constants"
	"propertyhub/listingsync/internal/db"
	"propertyhub/listingsync/internal/db/repositories"
	"propertyhub/listingsync/internal/jobs"
	"propertyhub/listingsync/internal/logging"
	"propertyhub/listingsync/internal/metrics"
	"propertyhub/listingsync/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if err := cfg.Validate(); err != nil {
		logging.Fatal("Invalid configuration", "error", err.Error())
	}

	logging.Info("Listing sync starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DSN()
	if err != nil {
		logging.Fatal("Invalid data store URL", "error", err.Error())
	}

	// GORM owns writes and migrations
	ormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	if err := db.Migrate(ormDB); err != nil {
		logging.Fatal("Failed to migrate", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	// sqlx serves the read-side endpoints
	sqlxDB, err := db.InitPostgres(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	defer sqlxDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	var redisCache *common.RedisCacheService
	if cfg.RedisEnabled() {
		redisCache = common.NewRedisCacheService(common.NewRedisClient(ctx, cfg))
	}
	cache := common.NewCache(redisCache, time.Minute, 10*time.Minute)
	defer cache.Close()

	syncJob := jobs.InitializeJobs(cfg, ormDB, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(&routes.Dependencies{
		SyncJob:          syncJob,
		StatusReader:     repositories.NewSyncRunRepository(sqlxDB),
		DB:               sqlxDB,
		Cache:            cache,
		Metrics:          metricsReg,
		TriggerSecret:    cfg.TriggerSecret,
		TriggerWhitelist: cfg.TriggerWhitelist,
	}, upSince)

	// Metrics stay outside the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.SyncInterval > 0 {
		g.Go(func() error {
			logging.Info("Scheduled listing sync enabled",
				"interval", cfg.SyncInterval.String(),
				"source", constants.RequestSourceScheduler,
			)
			syncJob.RunScheduled(gctx, cfg.SyncInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server exited with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
