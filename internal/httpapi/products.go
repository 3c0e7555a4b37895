package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

type productRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Price       *int64 `json:"price"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"categoryId"`
}

func (req productRequest) toDomain() domain.ProductInput {
	return domain.ProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
}

type productResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	CategoryID  int64     `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type productCreatedResponse struct {
	ProductID int64  `json:"productId"`
	Message   string `json:"message"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Price:       p.Price,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
}

// parsePage читает page/size из query; некорректные значения дают значения по умолчанию.
func parsePage(r *http.Request) domain.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return domain.Page{Number: page, Size: size}.Normalize()
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidRequest
	}
	return id, nil
}

func (h *handler) listProducts(sort domain.ProductSort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.catalog.List(r.Context(), parsePage(r), sort)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp := make([]productResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, newProductResponse(p))
		}
		writeJSON(w, http.StatusAccepted, resp)
	}
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(product))
}

func (h *handler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	product, err := h.catalog.Register(r.Context(), req.toDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, productCreatedResponse{
		ProductID: product.ID,
		Message:   "상품이 정상적으로 등록되었습니다.",
	})
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.catalog.Update(r.Context(), id, req.toDomain()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusAccepted, "상품 변경이 완료되었습니다.")
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusAccepted, "상품이 삭제되었습니다.")
}

func (h *handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Name == "" {
		h.writeError(w, r, domain.ErrInvalidRequest)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, categoryResponse{CategoryID: category.ID, Name: category.Name})
}
