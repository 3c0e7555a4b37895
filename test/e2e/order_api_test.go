package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/shopcheck/internal/regression"
)

// OrderAPISuite - история заказов и оформление из корзины.
type OrderAPISuite struct {
	suite.Suite
	ctx context.Context
}

func TestOrderAPISuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrderAPISuite))
}

func (s *OrderAPISuite) SetupSuite() {
	s.ctx = context.Background()
}

// buyer регистрирует отдельного участника, чтобы не делить корзину с CartAPISuite.
func (s *OrderAPISuite) buyer() string {
	req := joinRequest(freshUsername("ord", 5))
	resp, err := client.Join(s.ctx, req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusAccepted, resp.Status, resp.Text())

	token, err := client.Login(s.ctx, *req.Username, req.Password)
	s.Require().NoError(err)
	return token
}

func (s *OrderAPISuite) myOrders(token string) []regression.Order {
	resp, err := client.MyOrders(s.ctx, token)
	s.Require().NoError(err)
	s.Require().True(resp.OK(), "my orders: %d %s", resp.Status, resp.Text())

	var orders []regression.Order
	s.Require().NoError(resp.JSON(&orders))
	return orders
}

func (s *OrderAPISuite) TestMyOrdersWithToken() {
	token, err := client.Login(s.ctx, cfg.Username, cfg.Password)
	s.Require().NoError(err)
	s.NotNil(s.myOrders(token))
}

func (s *OrderAPISuite) TestMyOrdersWithoutTokenDenied() {
	resp, err := client.MyOrders(s.ctx, "")
	s.Require().NoError(err)
	s.Contains([]int{http.StatusUnauthorized, http.StatusForbidden}, resp.Status)
}

func (s *OrderAPISuite) TestCheckoutWithoutTokenDenied() {
	resp, err := client.Checkout(s.ctx, "")
	s.Require().NoError(err)
	s.Contains([]int{http.StatusUnauthorized, http.StatusForbidden}, resp.Status)
}

func (s *OrderAPISuite) TestCheckoutEmptyCartRejected() {
	token := s.buyer()

	resp, err := client.Checkout(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.Status)
	s.Equal("장바구니가 비어 있습니다.", resp.Text())
}

func (s *OrderAPISuite) TestCheckoutPlacesOrder() {
	token := s.buyer()
	s.Empty(s.myOrders(token))

	for _, add := range []regression.AddCartRequest{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}} {
		resp, err := client.AddCart(s.ctx, token, add)
		s.Require().NoError(err)
		s.Require().Equal(http.StatusAccepted, resp.Status, resp.Text())
	}

	resp, err := client.Checkout(s.ctx, token)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusAccepted, resp.Status, resp.Text())
	var placed regression.OrderPlacedResponse
	s.Require().NoError(resp.JSON(&placed))
	s.NotEmpty(placed.OrderID)
	s.Equal("주문이 정상적으로 완료되었습니다.", placed.Message)

	orders := s.myOrders(token)
	s.Require().Len(orders, 1)
	order := orders[0]
	s.Equal(placed.OrderID, order.OrderID)
	s.Len(order.Items, 2)

	var total int64
	for _, item := range order.Items {
		total += item.Price * int64(item.Quantity)
	}
	s.Equal(total, order.TotalPrice)
	s.False(order.CreatedAt.IsZero())

	cartResp, err := client.GetCart(s.ctx, token)
	s.Require().NoError(err)
	var items []regression.CartItem
	s.Require().NoError(cartResp.JSON(&items))
	s.Empty(items, "checkout must clear the cart")
}
