package app

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/auth"
	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/shopcheck/internal/health"
	"github.com/vladislavdragonenkov/shopcheck/internal/httpapi"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/cart"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/catalog"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/member"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/order"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/outbox"
)

// Shop - собранный сервис магазина: сервисы, HTTP-роутер и хранилище.
type Shop struct {
	Handler http.Handler

	Members *member.Service
	Catalog *catalog.Service
	Carts   *cart.Service
	Orders  *order.Service
	Tokens  *auth.TokenProvider
	Metrics *metrics.ShopMetrics

	outboxRepo     domain.OutboxRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// Build собирает магазин поверх выбранного хранилища.
// m == nil означает регистрацию метрик в prometheus.DefaultRegisterer.
func Build(ctx context.Context, cfg Config, m *metrics.ShopMetrics, logger *log.Entry) (*Shop, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if m == nil {
		m = metrics.NewShopMetrics()
	}

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenProvider(cfg.JWTSecret, auth.TokenOptions{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		closeDependencies(deps, logger)
		return nil, fmt.Errorf("init tokens: %w", err)
	}

	// Без потребителя outbox только растёт, поэтому события не пишутся.
	var events *outbox.Recorder
	if cfg.OutboxActive() {
		events = outbox.NewRecorder(deps.outboxRepo, m, logger.WithField("component", "outbox-recorder"))
	}
	members := member.NewService(deps.members, auth.NewPasswordHasher(cfg.BcryptCost), tokens,
		member.WithEvents(events),
		member.WithMetrics(m),
		member.WithLogger(logger.WithField("component", "member-service")),
	)
	catalogSvc := catalog.NewService(deps.products, logger.WithField("component", "catalog-service"))
	carts := cart.NewService(deps.carts, deps.products, events, m, logger.WithField("component", "cart-service"))
	orders := order.NewService(deps.orders, carts, events, m, logger.WithField("component", "order-service"))

	router := httpapi.NewRouter(httpapi.Services{
		Members: members,
		Catalog: catalogSvc,
		Carts:   carts,
		Orders:  orders,
		Metrics: m,
		Logger:  logger.WithField("component", "http"),
	})

	shop := &Shop{
		Handler:        router,
		Members:        members,
		Catalog:        catalogSvc,
		Carts:          carts,
		Orders:         orders,
		Tokens:         tokens,
		Metrics:        m,
		outboxRepo:     deps.outboxRepo,
		storageChecker: deps.storageChecker,
		closeFn:        deps.closeFn,
	}

	if cfg.SeedDemoData {
		if err := SeedDemoData(ctx, shop, logger); err != nil {
			_ = shop.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return shop, nil
}

// OutboxRepository возвращает outbox выбранного хранилища.
func (s *Shop) OutboxRepository() domain.OutboxRepository {
	return s.outboxRepo
}

// Close освобождает хранилище.
func (s *Shop) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func closeDependencies(deps runtimeDependencies, logger *log.Entry) {
	if deps.closeFn == nil {
		return
	}
	if err := deps.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}
