// Package catalog управляет товарами и категориями магазина.
package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

// Service - сценарии каталога.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog-service")
	}
	return &Service{products: products, logger: logger}
}

// List возвращает страницу каталога в заданном порядке.
func (s *Service) List(ctx context.Context, page domain.Page, sort domain.ProductSort) ([]domain.Product, error) {
	if sort != domain.ProductSortLowPrice {
		sort = domain.ProductSortNewest
	}
	return s.products.List(ctx, page.Normalize(), sort)
}

// Get возвращает товар или domain.ErrProductNotFound.
func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

// Register добавляет товар в каталог.
// Существование категории проверяется раньше остальных полей.
func (s *Service) Register(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return domain.Product{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}

	var product domain.Product
	in.Apply(&product)
	created, err := s.products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id":  created.ID,
		"category_id": created.CategoryID,
	}).Info("product registered")
	return created, nil
}

// Update меняет товар целиком.
func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return domain.Product{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}

	in.Apply(&product)
	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Delete удаляет товар.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// CreateCategory добавляет категорию.
func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	return s.products.CreateCategory(ctx, name)
}

func (s *Service) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	exists, err := s.products.CategoryExists(ctx, *categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return domain.ErrCategoryNotFound
	}
	return nil
}
