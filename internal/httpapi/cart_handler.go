package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saitejagovikar/my-website-sub000/internal/cart"
	"github.com/saitejagovikar/my-website-sub000/internal/catalog"
	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/pricing"
)

type CartHandler struct {
	carts    *cart.Service
	products catalog.Repository
	timeout  time.Duration
}

func NewCartHandler(carts *cart.Service, products catalog.Repository, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID      string            `json:"productId"`
	Quantity       int               `json:"quantity"`
	Size           string            `json:"size,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.Get(ctx, getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddItem resolves the product from the catalog so the stored line carries
// the server's price and name, never the client's.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetByID(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	line := domain.CartLine{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPrice:      product.Price,
		Quantity:       req.Quantity,
		Size:           req.Size,
		Customizations: req.Customizations,
	}
	if len(product.Images) > 0 {
		line.Image = product.Images[0]
	}

	c, err := h.carts.AddLine(ctx, getSessionID(r.Context()), line)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineKey := chi.URLParam(r, "key")
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	c, err := h.carts.UpdateQuantity(ctx, getSessionID(r.Context()), lineKey, req.Quantity)
	if errors.Is(err, cart.ErrLineNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "cart line not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineKey := chi.URLParam(r, "key")
	c, err := h.carts.RemoveLine(ctx, getSessionID(r.Context()), lineKey)
	if errors.Is(err, cart.ErrLineNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "cart line not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.carts.Clear(ctx, getSessionID(r.Context())); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Summary prices the current session cart for the given payment method
// without placing anything.
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	method := domain.PaymentMethod(r.URL.Query().Get("method"))
	if method == "" {
		method = domain.PaymentMethodOnline
	}
	if method != domain.PaymentMethodOnline && method != domain.PaymentMethodCOD {
		respondError(w, http.StatusBadRequest, "invalid_method", "method must be online or cod")
		return
	}

	c, err := h.carts.Get(ctx, getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, pricing.Compute(c, method))
}

// Merge reconciles the session cart with the user's mirrored cart after
// login. Idempotent per login event from the client's point of view.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	merged, err := h.carts.MergeOnLogin(ctx, getSessionID(r.Context()), getUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to merge carts")
		return
	}
	respondJSON(w, http.StatusOK, merged)
}

func (h *CartHandler) GetMirror(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.GetMirror(ctx, getUserID(r.Context()))
	if errors.Is(err, cart.ErrCartNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "no mirrored cart")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load mirrored cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ReplaceMirror is the replace-all mirror write: the body becomes the user's
// entire mirrored cart, no per-line patching.
func (h *CartHandler) ReplaceMirror(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var c domain.Cart
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	userID := getUserID(r.Context())
	c.OwnerID = userID
	if err := h.carts.ReplaceMirror(ctx, userID, &c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}
