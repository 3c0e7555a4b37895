package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/outbox"
	"github.com/vladislavdragonenkov/shopcheck/internal/storage/memory"
)

type fixture struct {
	svc      *Service
	products domain.ProductRepository
	outbox   *memory.OutboxRepository
	shirt    domain.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	products := memory.NewProductRepository()
	category, err := products.CreateCategory(ctx, "의류")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	shirt, err := products.Create(ctx, domain.Product{Title: "셔츠", Price: 15000, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	outboxRepo := memory.NewOutboxRepository()
	m := metrics.NewShopMetricsWithRegisterer(prometheus.NewRegistry())
	svc := NewService(memory.NewCartRepository(), products, outbox.NewRecorder(outboxRepo, m, nil), m, nil)
	return fixture{svc: svc, products: products, outbox: outboxRepo, shirt: shirt}
}

func TestAdd_EnrichesAndMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.Add(ctx, 7, f.shirt.ID, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID <= 0 || item.ProductName != "셔츠" || item.Price != 15000 {
		t.Fatalf("unexpected item: %+v", item)
	}

	again, err := f.svc.Add(ctx, 7, f.shirt.ID, 1)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if again.ID != item.ID || again.Quantity != 3 {
		t.Fatalf("expected merged line with quantity 3, got %+v", again)
	}
}

func TestAdd_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, 0); !errors.Is(err, domain.ErrCartQuantityInvalid) {
		t.Fatalf("expected quantity error, got %v", err)
	}
	if _, err := f.svc.Add(ctx, 7, 404, 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestAdd_QuantityLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, math.MaxInt); !errors.Is(err, domain.ErrCartQuantityTooLarge) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, domain.MaxCartQuantity); err != nil {
		t.Fatalf("add up to the limit: %v", err)
	}
	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, domain.MaxCartQuantity); !errors.Is(err, domain.ErrCartQuantityTooLarge) {
		t.Fatalf("expected limit error on merge, got %v", err)
	}

	items, err := f.svc.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != domain.MaxCartQuantity {
		t.Fatalf("rejected merge must keep the line unchanged: %+v", items)
	}
}

func TestList_SkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	extra, err := f.products.Create(ctx, domain.Product{Title: "모자", Price: 9000, CategoryID: f.shirt.CategoryID})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, 1); err != nil {
		t.Fatalf("add shirt: %v", err)
	}
	if _, err := f.svc.Add(ctx, 7, extra.ID, 1); err != nil {
		t.Fatalf("add hat: %v", err)
	}
	if err := f.products.Delete(ctx, extra.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	items, err := f.svc.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != f.shirt.ID {
		t.Fatalf("unexpected items: %+v", items)
	}

	other, err := f.svc.List(ctx, 8)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("carts must be isolated per member, got %+v", other)
	}
}

func TestClear_RecordsEventOnlyWhenSomethingRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Clear(ctx, 7); err != nil {
		t.Fatalf("clear empty: %v", err)
	}
	if n := len(f.outbox.AllPending()); n != 0 {
		t.Fatalf("expected no events for empty cart, got %d", n)
	}

	if _, err := f.svc.Add(ctx, 7, f.shirt.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.Clear(ctx, 7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	pending := f.outbox.AllPending()
	if len(pending) != 1 || pending[0].EventType != domain.EventCartCleared {
		t.Fatalf("expected one cart.cleared event, got %+v", pending)
	}

	items, err := f.svc.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}
