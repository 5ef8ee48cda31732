package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/papv466-cell/Gorila-Padel-sub001/internal/agent"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/bootstrap"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/config"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/consumer"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/notify"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/repository"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/routes"
	"github.com/papv466-cell/Gorila-Padel-sub001/internal/tabs"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/logger"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/metrics"
	"github.com/papv466-cell/Gorila-Padel-sub001/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logr := logger.New(cfg.LogLevel)
	logr.Info("starting push relay", slog.String("app", cfg.AppName))

	var deliveryLog *repository.DeliveryLog
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logr.Error("failed to connect database", slog.Any("error", err))
			os.Exit(1)
		}
		deliveryLog = repository.NewDeliveryLog(db, cfg.DeliveryTable)
	}

	var store agent.NotificationStore
	if cfg.RedisURL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		notificationStore := repository.NewNotificationStore(rdb, cfg.NotificationTTL)
		defer notificationStore.Close()
		store = notificationStore
	}

	hub := tabs.NewHub(logr, nil)
	center := notify.NewWebhookCenter(cfg.NotifyEndpoint, cfg.NotifyAuthKey, cfg.NotifyTimeout, logr)
	metricsCollector := metrics.New()

	retryCfg := retry.Config{
		MaxAttempts:    cfg.RetryMaxAttempts,
		InitialBackoff: cfg.RetryInitialBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
	}

	deliveryAgent := agent.New(
		hub,
		center,
		store,
		deliveryLog,
		metricsCollector,
		logr,
		cfg.Origin,
		retryCfg,
	)
	hub.SetControlHandler(deliveryAgent.HandleControl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lifecycle := agent.NewLifecycle(hub, logr)
	boot := bootstrap.New(lifecycle, logr, cfg.SplashAttempts, cfg.SplashDelay)
	if !boot.Register(ctx) {
		logr.Warn("continuing without a controlling agent")
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logr.Error("failed to connect rabbitmq", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	base := consumer.NewBaseConsumer(
		conn,
		cfg.PushQueue,
		cfg.DeadLetterQueue,
		cfg.PrefetchCount,
		cfg.WorkerCount,
		logr,
	)
	pushConsumer := consumer.NewPushConsumer(base, deliveryAgent, logr, cfg.RetryMaxAttempts)

	started := time.Now()
	httpSrv := startHTTPServer(cfg.HTTPPort, deliveryAgent, hub, metricsCollector, logr, started)

	if err := pushConsumer.Start(ctx); err != nil {
		logr.Error("push consumer exited", slog.Any("error", err))
	}

	shutdownHTTP(httpSrv, logr)
	logr.Info("push relay stopped")
}

func startHTTPServer(port string, deliveryAgent *agent.Agent, hub *tabs.Hub, metricsCollector *metrics.Metrics, logr *slog.Logger, started time.Time) *http.Server {
	if port == "" {
		port = "8082"
	}
	handler := routes.NewRouter(deliveryAgent, hub, metricsCollector, started)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("http server error", slog.Any("error", err))
		}
	}()
	return srv
}

func shutdownHTTP(srv *http.Server, logr *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("failed to shutdown http server", slog.Any("error", err))
	}
}
