package handler

import (
	"errors"
	"net/http"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/product"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intQuery(q.Get("limit"))
	if err != nil {
		h.writeError(w, r, apperror.Validation("limit must be a number"))
		return
	}

	products, err := h.products.List(r.Context(), product.ListOptions{
		FeaturedOnly: q.Get("featured") == "true",
		InStockOnly:  q.Get("inStock") == "true",
		Limit:        limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, products, "")
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r.URL.Query().Get("limit"))
	if err != nil {
		h.writeError(w, r, apperror.Validation("limit must be a number"))
		return
	}

	products, err := h.products.Featured(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, products, "")
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeProductError(w, r, err)
		return
	}
	ok(w, p, "")
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input product.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.products.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	created(w, p, "Product created successfully")
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input product.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeProductError(w, r, err)
		return
	}
	ok(w, p, "Product updated successfully")
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeProductError(w, r, err)
		return
	}
	ok(w, nil, "Product deleted successfully")
}

// writeProductError reports a missing product as 404 on catalog routes, where
// the product is the addressed resource rather than an order line.
func (h *Handler) writeProductError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, product.ErrProductNotFound) {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	h.writeError(w, r, err)
}
