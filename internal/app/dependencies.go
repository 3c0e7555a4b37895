package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/shopcheck/internal/health"
	"github.com/vladislavdragonenkov/shopcheck/internal/storage/memory"
	"github.com/vladislavdragonenkov/shopcheck/internal/storage/postgres"
)

// runtimeDependencies - репозитории выбранного драйвера хранилища.
type runtimeDependencies struct {
	members    domain.MemberRepository
	products   domain.ProductRepository
	carts      domain.CartRepository
	orders     domain.OrderRepository
	outboxRepo domain.OutboxRepository

	storageChecker healthcheck.Checker
	closeFn        func() error
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if driver == "" {
		driver = StorageDriverMemory
	}

	switch driver {
	case StorageDriverMemory:
		logger.Info("using in-memory storage")
		return runtimeDependencies{
			members:    memory.NewMemberRepository(),
			products:   memory.NewProductRepository(),
			carts:      memory.NewCartRepository(),
			orders:     memory.NewOrderRepository(),
			outboxRepo: memory.NewOutboxRepository(),
			storageChecker: healthcheck.NewCheckerFunc("storage", func(context.Context) error {
				return nil
			}),
		}, nil
	case StorageDriverPostgres:
		return initPostgresDependencies(ctx, cfg, logger)
	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func initPostgresDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return runtimeDependencies{}, fmt.Errorf("postgres storage requires SHOP_POSTGRES_DSN")
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return runtimeDependencies{}, err
	}
	if cfg.PostgresAutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return runtimeDependencies{}, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	logger.Info("using postgres storage")
	return runtimeDependencies{
		members:        postgres.NewMemberRepository(store),
		products:       postgres.NewProductRepository(store),
		carts:          postgres.NewCartRepository(store),
		orders:         postgres.NewOrderRepository(store),
		outboxRepo:     postgres.NewOutboxRepository(store),
		storageChecker: healthcheck.NewStorageChecker("storage", store),
		closeFn:        store.Close,
	}, nil
}
