// Package cart реализует корзину аутентифицированного участника.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/outbox"
)

// Service - сценарии корзины.
type Service struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	events   *outbox.Recorder
	metrics  *metrics.ShopMetrics
	logger   *log.Entry
}

// NewService создаёт сервис корзины. events и m могут быть nil.
func NewService(carts domain.CartRepository, products domain.ProductRepository, events *outbox.Recorder, m *metrics.ShopMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "cart-service")
	}
	return &Service{
		carts:    carts,
		products: products,
		events:   events,
		metrics:  m,
		logger:   logger,
	}
}

// Add кладёт товар в корзину участника.
func (s *Service) Add(ctx context.Context, memberID, productID int64, quantity int) (domain.CartItem, error) {
	if err := domain.ValidateCartQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.CartItem{}, err
	}

	item, err := s.carts.Add(ctx, memberID, productID, quantity)
	if err != nil {
		return domain.CartItem{}, err
	}
	item.ProductName = product.Title
	item.Price = product.Price

	s.metrics.RecordCartAdd()
	s.logger.WithFields(log.Fields{
		"member_id":  memberID,
		"product_id": productID,
		"quantity":   item.Quantity,
	}).Debug("cart item added")
	return item, nil
}

// List возвращает корзину с актуальными названиями и ценами.
// Позиции с удалёнными из каталога товарами пропускаются.
func (s *Service) List(ctx context.Context, memberID int64) ([]domain.CartItem, error) {
	items, err := s.carts.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	result := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		product, err := s.products.Get(ctx, item.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}
		item.ProductName = product.Title
		item.Price = product.Price
		result = append(result, item)
	}
	return result, nil
}

// Clear удаляет все позиции корзины. Пустая корзина - не ошибка.
func (s *Service) Clear(ctx context.Context, memberID int64) error {
	removed, err := s.carts.ClearByMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if removed == 0 {
		return nil
	}

	s.events.Record(ctx, domain.AggregateCart, domain.MemberAggregateID(memberID), domain.EventCartCleared, domain.CartClearedEvent{
		MemberID:  memberID,
		Removed:   removed,
		ClearedAt: time.Now().UTC(),
	})
	return nil
}
