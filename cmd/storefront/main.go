package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/app"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfig формирует конфигурацию приложения из переменных окружения.
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("DEALDRESS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DEALDRESS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("DEALDRESS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MP_ACCESS_TOKEN"); v != "" {
		cfg.ProcessorAccessToken = v
	}
	if v := os.Getenv("MP_BASE_URL"); v != "" {
		cfg.ProcessorBaseURL = v
	}
	if v := os.Getenv("DEALDRESS_STATEMENT"); v != "" {
		cfg.StatementDescriptor = v
	}
	if v := os.Getenv("DEALDRESS_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("DEALDRESS_COURIER_COST"); v != "" {
		if cost, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.CourierShippingCost = cost
		}
	}
	if v := os.Getenv("DEALDRESS_STORAGE"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.MongoURI = v
		cfg.StorageDriver = app.StorageMongo
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("OUTBOX_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OutboxPollInterval = d
		}
	}
	return cfg
}

func main() {
	// .env опционален: в проде переменные приходят из окружения.
	_ = godotenv.Load()

	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем витрину DealDress")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис остановлен")
}
