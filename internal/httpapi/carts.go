package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

type addCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type addCartResponse struct {
	CartID  int64  `json:"cartId"`
	Message string `json:"message"`
}

type cartItemResponse struct {
	CartID      int64  `json:"cartId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

type orderItemResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

type orderResponse struct {
	OrderID    string              `json:"orderId"`
	Status     string              `json:"status"`
	TotalPrice int64               `json:"totalPrice"`
	Items      []orderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
}

type orderPlacedResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

func newOrderResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return orderResponse{
		OrderID:    o.ID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

func (h *handler) listCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.List(r.Context(), principal(r).MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, cartItemResponse{
			CartID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) addCart(w http.ResponseWriter, r *http.Request) {
	var req addCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.carts.Add(r.Context(), principal(r).MemberID, req.ProductID, req.Quantity)
	if errors.Is(err, domain.ErrProductNotFound) {
		// Неизвестный товар в корзине - ошибка запроса, а не отсутствующий ресурс.
		writeText(w, http.StatusBadRequest, lookupError(err).message)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, addCartResponse{
		CartID:  item.ID,
		Message: "장바구니에 정상적으로 추가되었습니다.",
	})
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), principal(r).MemberID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "장바구니가 비워졌습니다."})
}

func (h *handler) myOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context(), principal(r).MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	placed, err := h.orders.Checkout(r.Context(), principal(r).MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, orderPlacedResponse{
		OrderID: placed.ID,
		Message: "주문이 정상적으로 완료되었습니다.",
	})
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	found, err := h.orders.Get(r.Context(), principal(r).MemberID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(found))
}
