package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
)

type OrdersHandler struct {
	orders  *order.Service
	timeout time.Duration
}

func NewOrdersHandler(orders *order.Service, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, timeout: timeout}
}

type UpdateStatusRequestDTO struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListByUser(ctx, getUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ord, err := h.orders.Get(ctx, getUserID(r.Context()), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, order.ErrNotOwner):
		// leak nothing about other users' orders
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	respondJSON(w, http.StatusOK, ord)
}

func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ord, err := h.orders.Cancel(ctx, getUserID(r.Context()), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrNotOwner):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, order.ErrNotCancellable):
		respondError(w, http.StatusConflict, "not_cancellable", "order can no longer be cancelled")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to cancel order")
		return
	}
	respondJSON(w, http.StatusOK, ord)
}

func (h *OrdersHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *OrdersHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.OrderStatusConfirmed, domain.OrderStatusShipped, domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	ord, err := h.orders.AdminUpdateStatus(ctx, chi.URLParam(r, "id"), status, req.TrackingNumber)
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, order.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "order cannot move to that status")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order")
		return
	}
	respondJSON(w, http.StatusOK, ord)
}
