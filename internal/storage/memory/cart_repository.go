package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

type cartKey struct {
	memberID  int64
	productID int64
}

// cartRepositoryInMemory хранит позиции корзин; одна позиция на пару (участник, товар).
type cartRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[cartKey]domain.CartItem
}

// NewCartRepository возвращает in-memory хранилище корзин.
func NewCartRepository() domain.CartRepository {
	return &cartRepositoryInMemory{items: make(map[cartKey]domain.CartItem)}
}

// Add добавляет товар или увеличивает количество уже лежащей позиции.
func (r *cartRepositoryInMemory) Add(_ context.Context, memberID, productID int64, quantity int) (domain.CartItem, error) {
	if err := domain.ValidateCartQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := cartKey{memberID: memberID, productID: productID}
	item, ok := r.items[key]
	if ok {
		merged, err := domain.MergeCartQuantity(item.Quantity, quantity)
		if err != nil {
			return domain.CartItem{}, err
		}
		item.Quantity = merged
		item.UpdatedAt = now
	} else {
		r.nextID++
		item = domain.CartItem{
			ID:        r.nextID,
			MemberID:  memberID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	r.items[key] = item
	return item, nil
}

// ListByMember возвращает позиции в порядке добавления.
func (r *cartRepositoryInMemory) ListByMember(_ context.Context, memberID int64) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CartItem, 0)
	for key, item := range r.items {
		if key.memberID == memberID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *cartRepositoryInMemory) ClearByMember(_ context.Context, memberID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key := range r.items {
		if key.memberID == memberID {
			delete(r.items, key)
			removed++
		}
	}
	return removed, nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
