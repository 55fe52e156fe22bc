package handler

import (
	"net/http"
	"strconv"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/order"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input order.CreateOrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.orders.CreateOrder(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	created(w, res.Order, "Order created successfully")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, o, "")
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := order.ListInput{OrderStatus: order.OrderStatus(q.Get("orderStatus"))}

	var err error
	if input.Limit, err = intQuery(q.Get("limit")); err != nil {
		h.writeError(w, r, apperror.Validation("limit must be a number"))
		return
	}
	if input.Page, err = intQuery(q.Get("page")); err != nil {
		h.writeError(w, r, apperror.Validation("page must be a number"))
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, orders, "")
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var input order.UpdateStatusInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	o, err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderNumber"), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ok(w, o, "Order status updated")
}

func intQuery(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
