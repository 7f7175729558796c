package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/config"
	httpapi "github.com/sleeping-Zack/iot-platform/internal/http"
	"github.com/sleeping-Zack/iot-platform/internal/repository"
	"github.com/sleeping-Zack/iot-platform/internal/service"
	"github.com/sleeping-Zack/iot-platform/internal/store"
	"github.com/sleeping-Zack/iot-platform/pkg/database"
	"github.com/sleeping-Zack/iot-platform/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "iot-platform")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("Invalid reference timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	devicesRepo := repository.NewPostgresDevicesRepo(db)
	readingsRepo := repository.NewPostgresReadingsRepo(db)
	alertsRepo := repository.NewPostgresAlertsRepo(db)
	queueRepo := repository.NewPostgresSyncQueueRepo(db)
	summariesRepo := repository.NewPostgresSummariesRepo(db)

	locker := store.NewRedisLocker(redisClient)

	ingestSvc := service.NewIngestService(devicesRepo, readingsRepo, log)
	syncSvc := service.NewSyncService(queueRepo, locker, cfg.Sync.LeaseTTL, log)
	reportSvc := service.NewReportService(summariesRepo, locker, cfg.Report.LeaseTTL, zone, log)
	seriesSvc := service.NewSeriesService(devicesRepo, readingsRepo, summariesRepo, zone, log)

	router := httpapi.NewRouter(log)
	router.RegisterTelemetryRoutes(
		httpapi.NewIngestHandler(ingestSvc, log),
		httpapi.NewDeviceHandler(devicesRepo, alertsRepo, zone, log),
		httpapi.NewSeriesHandler(seriesSvc, log),
		httpapi.NewJobsHandler(syncSvc, reportSvc, summariesRepo, zone, log),
		httpapi.NewHealthHandler(db, redisClient, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// periodic jobs; overlapping manual triggers are safe, the lease wins
	go runSyncLoop(ctx, syncSvc, cfg.Sync.Interval, cfg.Sync.BatchSize, log)
	go runReportLoop(ctx, reportSvc, cfg.Report.Interval, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		log.Error("HTTP server error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	_ = database.Close(db)
}

func runSyncLoop(ctx context.Context, svc *service.SyncService, interval time.Duration, batchSize int, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Replicate(ctx, batchSize); err != nil {
				log.Error("Periodic sync run failed", zap.Error(err))
			}
		}
	}
}

func runReportLoop(ctx context.Context, svc *service.ReportService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.GenerateReport(ctx, ""); err != nil {
				log.Error("Periodic report run failed", zap.Error(err))
			}
		}
	}
}
