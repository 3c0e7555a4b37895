package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

// Учётная запись, с которой работают регрессионные сценарии по умолчанию.
const (
	DemoUsername = "test2345"
	DemoPassword = "Qwpo1209!@"
)

type demoProduct struct {
	title       string
	slug        string
	price       int64
	description string
}

var demoProducts = []demoProduct{
	{title: "베이직 티셔츠", slug: "basic-tshirt", price: 15000, description: "면 100% 기본 티셔츠"},
	{title: "데님 팬츠", slug: "denim-pants", price: 39000, description: "스트레이트 핏 데님"},
	{title: "캔버스 스니커즈", slug: "canvas-sneakers", price: 52000, description: "데일리 캔버스화"},
}

// SeedDemoData создаёт демо-категорию, товары 1..3 и участника test2345.
// Повторный вызов не дублирует данные: товары создаются только в пустом каталоге.
func SeedDemoData(ctx context.Context, shop *Shop, logger *log.Entry) error {
	existing, err := shop.Catalog.List(ctx, domain.Page{Number: 1, Size: 1}, domain.ProductSortNewest)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}
	if len(existing) == 0 {
		category, err := shop.Catalog.CreateCategory(ctx, "의류")
		if err != nil {
			return fmt.Errorf("create demo category: %w", err)
		}
		for _, p := range demoProducts {
			price := p.price
			if _, err := shop.Catalog.Register(ctx, domain.ProductInput{
				Title:       p.title,
				Slug:        p.slug,
				Price:       &price,
				Description: p.description,
				CategoryID:  &category.ID,
			}); err != nil {
				return fmt.Errorf("register demo product %s: %w", p.slug, err)
			}
		}
		logger.WithField("products", len(demoProducts)).Info("demo catalog seeded")
	}

	member, err := shop.Members.EnsureMember(ctx, domain.JoinInput{
		Email:    DemoUsername + "@example.com",
		Password: DemoPassword,
		Username: DemoUsername,
		Name:     "테스트유저",
		Address: domain.Address{
			Address:         "서울시 강남구",
			DetailedAddress: "테헤란로 123",
			ZipCode:         "06234",
		},
	}, domain.RoleUser)
	if err != nil {
		return fmt.Errorf("ensure demo member: %w", err)
	}
	logger.WithField("member_id", member.ID).Info("demo member ready")
	return nil
}
