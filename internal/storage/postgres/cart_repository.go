package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

// Add атомарно добавляет позицию или увеличивает количество существующей.
func (r *cartRepository) Add(ctx context.Context, memberID, productID int64, quantity int) (domain.CartItem, error) {
	if err := domain.ValidateCartQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	item := domain.CartItem{MemberID: memberID, ProductID: productID}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (member_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (member_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at
		WHERE cart_items.quantity + EXCLUDED.quantity <= $5
		RETURNING id, quantity, created_at, updated_at
	`, memberID, productID, quantity, time.Now().UTC(), domain.MaxCartQuantity).Scan(
		&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		// Конфликт отфильтрован WHERE: позиция не изменилась, сумма вышла за предел.
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, domain.ErrCartQuantityTooLarge
		}
		if isForeignKeyViolation(err) {
			return domain.CartItem{}, domain.ErrProductNotFound
		}
		return domain.CartItem{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return item, nil
}

func (r *cartRepository) ListByMember(ctx context.Context, memberID int64) ([]domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, member_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE member_id = $1
		ORDER BY id
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.MemberID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

func (r *cartRepository) ClearByMember(ctx context.Context, memberID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE member_id = $1`, memberID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.CartRepository = (*cartRepository)(nil)
