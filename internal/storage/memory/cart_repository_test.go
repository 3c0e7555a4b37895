package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

func TestCartRepository_AddMergesWithinLimit(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	first, err := repo.Add(ctx, 1, 10, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	merged, err := repo.Add(ctx, 1, 10, 3)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if merged.ID != first.ID || merged.Quantity != 5 {
		t.Fatalf("expected merged line with quantity 5, got %+v", merged)
	}
}

func TestCartRepository_RejectsQuantityOverLimit(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	if _, err := repo.Add(ctx, 1, 10, math.MaxInt); !errors.Is(err, domain.ErrCartQuantityTooLarge) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if _, err := repo.Add(ctx, 1, 10, 0); !errors.Is(err, domain.ErrCartQuantityInvalid) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}

	if _, err := repo.Add(ctx, 1, 10, domain.MaxCartQuantity-1); err != nil {
		t.Fatalf("add below limit: %v", err)
	}
	if _, err := repo.Add(ctx, 1, 10, 2); !errors.Is(err, domain.ErrCartQuantityTooLarge) {
		t.Fatalf("expected limit error on merge, got %v", err)
	}

	items, err := repo.ListByMember(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != domain.MaxCartQuantity-1 {
		t.Fatalf("rejected merge changed the line: %+v", items)
	}
}
