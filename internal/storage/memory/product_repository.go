package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

// productRepositoryInMemory хранит каталог товаров и категорий.
type productRepositoryInMemory struct {
	mu             sync.RWMutex
	nextProductID  int64
	nextCategoryID int64
	products       map[int64]domain.Product
	categories     map[int64]domain.Category
}

// NewProductRepository возвращает in-memory каталог.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		products:   make(map[int64]domain.Product),
		categories: make(map[int64]domain.Category),
	}
}

func (r *productRepositoryInMemory) CreateCategory(_ context.Context, name string) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCategoryID++
	category := domain.Category{ID: r.nextCategoryID, Name: name}
	r.categories[category.ID] = category
	return category, nil
}

func (r *productRepositoryInMemory) CategoryExists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.categories[id]
	return ok, nil
}

func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[product.CategoryID]; !ok {
		return domain.Product{}, domain.ErrCategoryNotFound
	}

	r.nextProductID++
	now := time.Now().UTC()
	product.ID = r.nextProductID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = product
	return product, nil
}

func (r *productRepositoryInMemory) Get(_ context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает страницу каталога. Для newest порядок - по убыванию ID,
// для low_price - по возрастанию цены.
func (r *productRepositoryInMemory) List(_ context.Context, page domain.Page, order domain.ProductSort) ([]domain.Product, error) {
	r.mu.RLock()
	all := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if order == domain.ProductSortLowPrice && all[i].Price != all[j].Price {
			return all[i].Price < all[j].Price
		}
		if order == domain.ProductSortLowPrice {
			return all[i].ID < all[j].ID
		}
		return all[i].ID > all[j].ID
	})

	page = page.Normalize()
	start := page.Offset()
	if start >= len(all) {
		return []domain.Product{}, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if _, ok := r.categories[product.CategoryID]; !ok {
		return domain.ErrCategoryNotFound
	}
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
