package domain

import "time"

// MaxCartQuantity - наибольшее количество одного товара в позиции корзины.
const MaxCartQuantity = 9999

// CartItem - позиция корзины участника.
// ProductName и Price заполняются из каталога при чтении.
type CartItem struct {
	ID          int64
	MemberID    int64
	ProductID   int64
	ProductName string
	Price       int64
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateCartQuantity проверяет количество, с которым товар кладут в корзину.
func ValidateCartQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrCartQuantityInvalid
	}
	if quantity > MaxCartQuantity {
		return ErrCartQuantityTooLarge
	}
	return nil
}

// MergeCartQuantity складывает количество лежащей позиции с добавляемым.
func MergeCartQuantity(current, added int) (int, error) {
	if err := ValidateCartQuantity(added); err != nil {
		return 0, err
	}
	if added > MaxCartQuantity-current {
		return 0, ErrCartQuantityTooLarge
	}
	return current + added, nil
}

// Subtotal возвращает стоимость позиции или ErrOrderTotalOverflow.
func (c CartItem) Subtotal() (int64, error) {
	return lineTotal(c.Price, c.Quantity)
}

// CartTotal суммирует стоимость всех позиций корзины.
func CartTotal(items []CartItem) (int64, error) {
	var total int64
	for _, item := range items {
		sub, err := item.Subtotal()
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = addInt64(total, sub); !ok {
			return 0, ErrOrderTotalOverflow
		}
	}
	return total, nil
}

func lineTotal(price int64, quantity int) (int64, error) {
	sub, ok := mulInt64(price, int64(quantity))
	if !ok {
		return 0, ErrOrderTotalOverflow
	}
	return sub, nil
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) || c/b != a {
		return c, false
	}
	return c, true
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return c, false
	}
	return c, true
}
