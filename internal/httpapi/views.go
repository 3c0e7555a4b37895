package httpapi

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed views/*.html
var viewFiles embed.FS

// pages сопоставляет публичные пути страницам витрины.
var pages = map[string]string{
	"/":          "views/index.html",
	"/login":     "views/login.html",
	"/signup":    "views/signup.html",
	"/shop":      "views/products.html",
	"/cart":      "views/cart.html",
	"/my-orders": "views/orders.html",
	"/checkout":  "views/checkout.html",
}

func (h *handler) mountViews(r chi.Router) {
	for path, file := range pages {
		r.Get(path, h.servePage(file))
	}
	r.Get("/shop/{id}", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/shop", http.StatusFound)
	})
}

func (h *handler) servePage(file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := viewFiles.ReadFile(file)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
