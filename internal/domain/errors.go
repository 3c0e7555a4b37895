package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибки валидации при регистрации участника.
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameRequired = errors.New("username is required")
	// ErrInvalidUsernameLength - username длиннее MaxUsernameLength символов.
	ErrInvalidUsernameLength = errors.New("username is too long")
	// ErrDuplicateEmail и ErrDuplicateUsername сигнализируют о нарушении уникальности.
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrMemberNotFound возвращается, если участник не найден в репозитории.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidCredentials - неверная пара username/password при входе.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch - старый пароль не совпал при смене пароля.
	ErrPasswordMismatch = errors.New("previous password does not match")
	// ErrInvalidToken - токен не прошёл проверку подписи, срока или типа.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized - запрос без аутентификации.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden - у участника нет прав на операцию.
	ErrForbidden = errors.New("forbidden")

	ErrProductNotFound       = errors.New("product not found")
	ErrProductTitleRequired  = errors.New("product title is required")
	ErrProductPriceRequired  = errors.New("product price is required")
	ErrProductPriceInvalid   = errors.New("product price must be greater than zero")
	ErrCategoryRequired      = errors.New("category_id is required")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCartQuantityInvalid   = errors.New("cart quantity must be greater than zero")
	// ErrCartQuantityTooLarge - позиция превысила MaxCartQuantity. Является ErrCartQuantityInvalid.
	ErrCartQuantityTooLarge  = fmt.Errorf("%w: more than %d per line", ErrCartQuantityInvalid, MaxCartQuantity)
	// ErrOrderTotalOverflow - сумма заказа не помещается в int64.
	ErrOrderTotalOverflow    = errors.New("order total overflows")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrOrderNotFound         = errors.New("order not found")
	ErrMemberRequired        = errors.New("member_id is required")
	ErrItemsRequired         = errors.New("order must contain at least one item")
	ErrItemQtyInvalid        = errors.New("item quantity must be greater than zero")
	ErrItemPriceInvalid      = errors.New("item price must be non-negative")
	ErrAmountMismatch        = errors.New("order total does not match items sum")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrOutboxMessageNotFound = errors.New("outbox message not found")
)

// IsDuplicate проверяет, является ли ошибка нарушением уникальности участника.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername)
}
