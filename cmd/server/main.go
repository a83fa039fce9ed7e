package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aircare/internal/api"
	"aircare/internal/config"
	"aircare/internal/database"
	"aircare/internal/domain"
	"aircare/internal/events"
	"aircare/internal/export"
	"aircare/internal/logging"
	"aircare/internal/metrics"
	"aircare/internal/notify"
	"aircare/internal/repository"
	"aircare/internal/service"
	"aircare/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}

	draftRepo := buildDraftRepository(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()
	subscribeEventLoggers(eventBus, &logger)

	notifyClient := notify.NewClient(cfg.Notify, &logger)
	notifyWorker := worker.NewNotifyWorker(notifyClient, time.Duration(cfg.Notify.TimeoutSeconds)*time.Second, &logger)

	draftService := service.NewDraftService(draftRepo, eventBus, &logger)
	scopeGuard := service.NewScopeGuard(cfg.Scope.Prefixes, draftService, &logger)
	requestsService := service.NewRequestsService(db, eventBus, &logger)

	var dispatcher domain.NotifyDispatcher
	if cfg.Notify.Enabled {
		dispatcher = notifyWorker
	}
	submitService := service.NewSubmitService(draftService, db, dispatcher, eventBus, &logger)

	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(cfg.API, draftService, scopeGuard, submitService, requestsService, exporter, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Notify.Enabled {
		go notifyWorker.Start(ctx)
	}

	backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backup.Start(ctx)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.WithComponent(baseLogger, "server-main")

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		logger.Warn().Msg("redis address is empty, drafts will live in memory only")
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, failover will cover it")
	}

	return client
}

func buildDraftRepository(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *repository.FailoverDraftRepository {
	ttl := time.Duration(cfg.Draft.TTLSeconds) * time.Second
	memoryRepo := repository.NewMemoryDraftRepository(ttl)

	if redisClient == nil {
		return repository.NewFailoverDraftRepository(memoryRepo, memoryRepo, logger)
	}

	redisRepo := repository.NewRedisDraftRepository(redisClient, ttl)
	return repository.NewFailoverDraftRepository(redisRepo, memoryRepo, logger)
}

func subscribeEventLoggers(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventRequestSubmitted, func(event *events.Event) error {
		logger.Info().RawJSON("payload", event.Payload).Msg("request submitted")
		return nil
	})
	bus.Subscribe(events.EventDraftReset, func(event *events.Event) error {
		metrics.IncDraftReset()
		logger.Debug().RawJSON("payload", event.Payload).Msg("draft reset")
		return nil
	})
	bus.Subscribe(events.EventStatusChanged, func(event *events.Event) error {
		logger.Info().RawJSON("payload", event.Payload).Msg("request status changed")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
