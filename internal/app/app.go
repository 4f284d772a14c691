package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	healthcheck "github.com/Nikias-Tacain/dealdress-page/internal/health"
	"github.com/Nikias-Tacain/dealdress-page/internal/messaging/kafka"
	"github.com/Nikias-Tacain/dealdress-page/internal/payments"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/httpapi"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/intent"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/outbox"
	"github.com/Nikias-Tacain/dealdress-page/internal/service/reconcile"
	"github.com/Nikias-Tacain/dealdress-page/internal/storage/memory"
	"github.com/Nikias-Tacain/dealdress-page/internal/version"
)

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	processor, err := buildProcessor(cfg, logger)
	if err != nil {
		return err
	}

	// Kafka опционален: без брокеров заказы создаются, но события не публикуются.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	var outboxRepo domain.OutboxRepository
	if kafkaProducer != nil {
		repo := memory.NewOutboxRepository()
		outboxRepo = repo

		worker := outbox.NewWorker(repo, kafka.NewOutboxPublisher(kafkaProducer),
			outbox.WithLogger(logger.WithField("layer", "outbox")),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
		)
		go worker.Run(ctx)
	}

	intentSvc := intent.NewService(processor, intent.Options{
		BaseURL:             cfg.BaseURL,
		Currency:            cfg.Currency,
		StatementDescriptor: cfg.StatementDescriptor,
	}, logger.WithField("layer", "intent"))
	reconcileSvc := reconcile.NewService(storage.Orders, storage.Numbers, processor, outboxRepo, logger.WithField("layer", "reconcile"))

	handler := httpapi.NewHandler(intentSvc, reconcileSvc, storage.Orders, httpapi.Options{
		CourierShippingCost: cfg.CourierShippingCost,
	}, logger.WithField("layer", "http"))
	router := gin.Default()
	handler.RegisterRoutes(router)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if storage.Ping != nil {
		healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", storage.Ping))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	shutdown := func() {
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if storage.Close != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := storage.Close(closeCtx); err != nil {
				logger.WithError(err).Warn("failed to close storage")
			}
		}
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		shutdown()
		return ctx.Err()
	case err := <-errCh:
		shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildProcessor создаёт клиент процессинга. Пустой токен не валит запуск:
// витрина продолжает отдавать заказы, а checkout отвечает ошибкой конфигурации.
func buildProcessor(cfg Config, logger *log.Entry) (domain.PaymentProcessor, error) {
	if cfg.ProcessorAccessToken == "" {
		logger.Warn("processor access token is not set, checkout is disabled")
		return payments.NewDisabled(), nil
	}

	var options []payments.Option
	if cfg.ProcessorBaseURL != "" {
		options = append(options, payments.WithBaseURL(cfg.ProcessorBaseURL))
	}
	options = append(options, payments.WithLogger(logger.WithField("layer", "payments")))

	return payments.NewClient(cfg.ProcessorAccessToken, options...)
}

// startMetricsServer запускает служебный HTTP-сервер: метрики и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
