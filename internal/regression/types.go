package regression

import "time"

// SignInRequest - тело POST /members/sign-in.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse - пара токенов.
type TokenResponse struct {
	GrantType    string `json:"grantType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AddressRequest - адрес в теле регистрации.
type AddressRequest struct {
	Address         string `json:"address"`
	DetailedAddress string `json:"detailedAddress"`
	ZipCode         string `json:"zipCode"`
}

// JoinRequest - тело регистрации. Nil Username уходит как JSON null.
type JoinRequest struct {
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Username   *string         `json:"username"`
	Name       string          `json:"name"`
	Role       string          `json:"role,omitempty"`
	AddressReq *AddressRequest `json:"addressReq,omitempty"`
}

// JoinResponse - успешный ответ регистрации.
type JoinResponse struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

// AddCartRequest - тело POST /carts.
type AddCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddCartResponse - ответ на добавление в корзину.
type AddCartResponse struct {
	CartID  int64  `json:"cartId"`
	Message string `json:"message"`
}

// CartItem - позиция корзины.
type CartItem struct {
	CartID      int64  `json:"cartId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// OrderItem - позиция заказа.
type OrderItem struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Order - заказ из /orders/my-order.
type Order struct {
	OrderID    string      `json:"orderId"`
	Status     string      `json:"status"`
	TotalPrice int64       `json:"totalPrice"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// OrderPlacedResponse - ответ на оформление заказа.
type OrderPlacedResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}
