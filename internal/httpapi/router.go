// Package httpapi - HTTP-интерфейс магазина: JSON API участников, каталога,
// корзины и заказов, а также статические страницы витрины.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/cart"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/catalog"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/member"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/order"
)

// Services - зависимости HTTP-слоя.
type Services struct {
	Members *member.Service
	Catalog *catalog.Service
	Carts   *cart.Service
	Orders  *order.Service
	Metrics *metrics.ShopMetrics
	Logger  *log.Entry
}

type handler struct {
	members *member.Service
	catalog *catalog.Service
	carts   *cart.Service
	orders  *order.Service
	metrics *metrics.ShopMetrics
	logger  *log.Entry
}

// NewRouter собирает chi-роутер со всеми маршрутами магазина.
func NewRouter(svc Services) http.Handler {
	logger := svc.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	h := &handler{
		members: svc.Members,
		catalog: svc.Catalog,
		carts:   svc.Carts,
		orders:  svc.Orders,
		metrics: svc.Metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.observe)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusNotFound, "요청한 리소스를 찾을 수 없습니다.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusMethodNotAllowed, "허용되지 않은 메서드입니다.")
	})

	h.mountViews(r)

	r.Post("/members/join", h.join(domain.RoleUser))
	r.Post("/members/join/admin", h.join(domain.RoleAdmin))
	r.Post("/members/sign-in", h.signIn)
	r.Post("/members/refresh", h.refresh)

	r.Get("/products", h.listProducts(domain.ProductSortNewest))
	r.Get("/products/low_price", h.listProducts(domain.ProductSortLowPrice))
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/get-current-member", h.currentMember)
		r.Put("/members/update", h.updateMember)
		r.Put("/members/change-password", h.changePassword)
		r.Post("/members/change-password", h.changePassword)
		r.Delete("/members/{id}", h.deleteMember)

		r.Get("/carts", h.listCart)
		r.Post("/carts", h.addCart)
		r.Delete("/carts-all", h.clearCart)

		r.Get("/orders/my-order", h.myOrders)
		r.Post("/orders", h.checkout)
		r.Get("/orders/{id}", h.getOrder)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Post("/categories", h.createCategory)
			r.Post("/products", h.registerProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)
		})
	})

	return r
}
