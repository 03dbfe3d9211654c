package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/app"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfig формирует конфигурацию приложения из переменных окружения.
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	cfg.PostgresDSN = os.Getenv("STOREFRONT_POSTGRES_DSN")
	cfg.JWTSecret = os.Getenv("STOREFRONT_JWT_SECRET")
	if v := os.Getenv("STOREFRONT_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = ttl
		} else {
			log.WithField("value", v).Warn("некорректный STOREFRONT_TOKEN_TTL, используем значение по умолчанию")
		}
	}
	cfg.KafkaBrokers = os.Getenv("STOREFRONT_KAFKA_BROKERS")
	cfg.AdminEmail = os.Getenv("STOREFRONT_ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("STOREFRONT_ADMIN_PASSWORD")
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
	}).Info("запускаем storefront")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("storefront остановлен")
}
