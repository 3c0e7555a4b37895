package domain

import (
	"strings"
	"time"
)

// Category - категория каталога.
type Category struct {
	ID   int64
	Name string
}

// Product - товар каталога. Цена хранится в целых вонах.
type Product struct {
	ID          int64
	Title       string
	Slug        string
	Price       int64
	Description string
	CategoryID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput описывает запрос на создание или изменение товара.
// Price и CategoryID - указатели, чтобы отличать отсутствие значения от нуля.
type ProductInput struct {
	Title       string
	Slug        string
	Price       *int64
	Description string
	CategoryID  *int64
}

// Validate проверяет поля товара без обращения к хранилищу.
func (in ProductInput) Validate() error {
	if in.Price == nil {
		return ErrProductPriceRequired
	}
	if *in.Price <= 0 {
		return ErrProductPriceInvalid
	}
	if in.CategoryID == nil || *in.CategoryID <= 0 {
		return ErrCategoryRequired
	}
	if strings.TrimSpace(in.Title) == "" {
		return ErrProductTitleRequired
	}
	return nil
}

// Apply переносит проверенные поля запроса в товар.
func (in ProductInput) Apply(p *Product) {
	p.Title = strings.TrimSpace(in.Title)
	p.Slug = strings.TrimSpace(in.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Description = in.Description
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
}

// Slugify строит простой slug: нижний регистр, пробелы заменяются дефисами.
func Slugify(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	return strings.Join(fields, "-")
}

// ProductSort задаёт порядок выдачи каталога.
type ProductSort string

const (
	ProductSortNewest   ProductSort = "newest"
	ProductSortLowPrice ProductSort = "low_price"
)

// Page - параметры постраничной выдачи (page начинается с нуля).
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize приводит параметры страницы к допустимым значениям.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset возвращает смещение первой записи страницы.
func (p Page) Offset() int {
	return p.Number * p.Size
}
