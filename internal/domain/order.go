package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPlaced - заказ оформлен из корзины.
	OrderStatusPlaced OrderStatus = "PLACED"
	// OrderStatusCanceled - заказ отменён участником.
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// OrderItem - позиция заказа, зафиксированная на момент оформления.
type OrderItem struct {
	ProductID   int64
	ProductName string
	Price       int64
	Quantity    int
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID         string
	MemberID   int64
	Status     OrderStatus
	TotalPrice int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrderFromCart фиксирует содержимое корзины в новый заказ.
// Если сумма не помещается в int64, возвращает ErrOrderTotalOverflow.
func NewOrderFromCart(id string, memberID int64, cart []CartItem, now time.Time) (Order, error) {
	total, err := CartTotal(cart)
	if err != nil {
		return Order{}, err
	}
	items := make([]OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}
	return Order{
		ID:         id,
		MemberID:   memberID,
		Status:     OrderStatusPlaced,
		TotalPrice: total,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.MemberID <= 0 {
		errs = append(errs, ErrMemberRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Сверяем сумму заказа с суммой позиций: quantity * price.
	var calc int64
	overflow := false
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if overflow {
			continue
		}
		sub, err := lineTotal(item.Price, item.Quantity)
		if err != nil {
			overflow = true
			continue
		}
		var ok bool
		if calc, ok = addInt64(calc, sub); !ok {
			overflow = true
		}
	}
	switch {
	case overflow:
		errs = append(errs, ErrOrderTotalOverflow)
	case calc != o.TotalPrice:
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
