package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/api"
	"github.com/vladislavdragonenkov/storefront/internal/auth"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/service/account"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	PostgresDSN string

	JWTSecret string
	TokenTTL  time.Duration

	KafkaBrokers string

	AdminEmail    string
	AdminPassword string
}

// DefaultConfig возвращает базовые адреса API и метрик.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		TokenTTL:    24 * time.Hour,
	}
}

// Run собирает зависимости и держит два HTTP-сервера — API и метрики
// с health-пробами — до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if cfg.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров сервис работает, события не публикуются.
	kafkaProducer := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	accountSvc := account.NewService(deps.Users, tokens, logger.WithField("layer", "account"))
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := accountSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	catalogSvc := catalog.NewServiceWithKafka(
		deps.Products,
		deps.Categories,
		kafkaProducer,
		logger.WithField("layer", "catalog"),
	)
	cartSvc := cart.NewService(deps.Carts, catalogSvc, logger.WithField("layer", "cart"))
	orderSvc := order.NewServiceWithKafka(
		deps.Orders,
		deps.Carts,
		deps.OrderEvents,
		deps.Checkout,
		catalogSvc,
		kafkaProducer,
		logger.WithField("layer", "order"),
	)

	access := api.NewAuthMiddleware(tokens)
	router := api.NewRouter(api.Handlers{
		Auth:    api.NewAuthHandler(accountSvc),
		Catalog: api.NewCatalogHandler(catalogSvc),
		Cart:    api.NewCartHandler(cartSvc),
		Order:   api.NewOrderHandler(orderSvc),
		Access:  access,
	})

	buildVersion, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(buildVersion)
	if deps.Store != nil {
		store := deps.Store
		healthHandler.Register("postgres", healthcheck.NewPingChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus
// вместе с health-пробами.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
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
