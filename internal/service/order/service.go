// Package order оформляет заказы из корзины и отдаёт историю заказов участника.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/outbox"
)

// CartReader - часть сервиса корзины, нужная для оформления заказа.
type CartReader interface {
	List(ctx context.Context, memberID int64) ([]domain.CartItem, error)
	Clear(ctx context.Context, memberID int64) error
}

// Service - сценарии заказов.
type Service struct {
	orders  domain.OrderRepository
	carts   CartReader
	events  *outbox.Recorder
	metrics *metrics.ShopMetrics
	logger  *log.Entry
	now     func() time.Time
}

// NewService создаёт сервис заказов. events и m могут быть nil.
func NewService(orders domain.OrderRepository, carts CartReader, events *outbox.Recorder, m *metrics.ShopMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		orders:  orders,
		carts:   carts,
		events:  events,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checkout превращает корзину участника в заказ и очищает её.
func (s *Service) Checkout(ctx context.Context, memberID int64) (domain.Order, error) {
	items, err := s.carts.List(ctx, memberID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}

	order, err := domain.NewOrderFromCart(uuid.NewString(), memberID, items, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("order invariants: %w", errors.Join(errs...))
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	logger := s.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"member_id": memberID,
	})
	// Заказ уже сохранён; неочищенная корзина не должна превращать успех в ошибку.
	if err := s.carts.Clear(ctx, memberID); err != nil {
		logger.WithError(err).Warn("failed to clear cart after checkout")
	}

	s.events.Record(ctx, domain.AggregateOrder, order.ID, domain.EventOrderPlaced, domain.OrderPlacedEvent{
		OrderID:    order.ID,
		MemberID:   memberID,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(order.Items),
		PlacedAt:   order.CreatedAt,
	})
	s.metrics.RecordOrderPlaced()
	logger.WithField("total_price", order.TotalPrice).Info("order placed")
	return order, nil
}

// MyOrders возвращает заказы участника, новые первыми.
func (s *Service) MyOrders(ctx context.Context, memberID int64) ([]domain.Order, error) {
	return s.orders.ListByMember(ctx, memberID, 0)
}

// Get возвращает заказ участника. Чужой заказ неотличим от отсутствующего.
func (s *Service) Get(ctx context.Context, memberID int64, orderID string) (domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.MemberID != memberID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}
