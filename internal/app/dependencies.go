package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения. Store заполняется только
// при работе поверх PostgreSQL; для in-memory варианта он nil.
type Dependencies struct {
	Users       domain.UserRepository
	Categories  domain.CategoryRepository
	Products    domain.ProductRepository
	Carts       domain.CartRepository
	Orders      domain.OrderRepository
	OrderEvents domain.OrderEventRepository
	Checkout    domain.Checkout
	Store       *postgres.Store
	Logger      *log.Entry
}

// NewDependencies собирает хранилища: PostgreSQL при заданном DSN,
// иначе общий in-memory store. Для PostgreSQL схема доводится до
// актуальной версии на старте.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		store := memory.NewStore()
		logger.Info("используем in-memory хранилище")
		return &Dependencies{
			Users:       store.Users(),
			Categories:  store.Categories(),
			Products:    store.Products(),
			Carts:       store.Carts(),
			Orders:      store.Orders(),
			OrderEvents: store.OrderEvents(),
			Checkout:    store.Checkout(),
			Logger:      logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("используем PostgreSQL хранилище")

	return &Dependencies{
		Users:       postgres.NewUserRepository(store),
		Categories:  postgres.NewCategoryRepository(store),
		Products:    postgres.NewProductRepository(store),
		Carts:       postgres.NewCartRepository(store),
		Orders:      postgres.NewOrderRepository(store),
		OrderEvents: postgres.NewOrderEventRepository(store),
		Checkout:    postgres.NewCheckout(store),
		Store:       store,
		Logger:      logger,
	}, nil
}

// Close освобождает ресурсы хранилищ.
func (d *Dependencies) Close() {
	if d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
