package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/saitejagovikar/my-website-sub000/internal/address"
	"github.com/saitejagovikar/my-website-sub000/internal/cart"
	"github.com/saitejagovikar/my-website-sub000/internal/checkout"
	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/gateway"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	carts        *cart.Service
	addresses    *address.Service
	timeout      time.Duration
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, carts *cart.Service, addresses *address.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		carts:        carts,
		addresses:    addresses,
		timeout:      timeout,
	}
}

// CheckoutRequestDTO is the submit payload. Either AddressID selects a saved
// address, or the inline form fields describe a new one.
type CheckoutRequestDTO struct {
	order.CheckoutForm
	AddressID   string `json:"addressId,omitempty"`
	SaveAddress bool   `json:"saveAddress,omitempty"`
}

// VerifyRequestDTO carries only the gateway proof. The save-address choice
// was recorded on the order when checkout began; a resent flag here would be
// client-forgeable and is ignored.
type VerifyRequestDTO struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
	Email            string `json:"email,omitempty"`
}

// buildRequest assembles the orchestrator request from the submit payload:
// resolve the shipping address, then load the session cart. A validation
// failure is reported field-by-field and nothing is submitted.
func (h *CheckoutHandler) buildRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dto CheckoutRequestDTO) (checkout.Request, bool) {
	userID := getUserID(r.Context())
	sessionID := getSessionID(r.Context())

	var addr domain.ShippingAddress
	if dto.AddressID != "" {
		saved, err := h.addresses.GetAddress(ctx, userID, dto.AddressID)
		if errors.Is(err, address.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "address not found")
			return checkout.Request{}, false
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load address")
			return checkout.Request{}, false
		}
		addr = *saved
	} else {
		if fieldErrs := order.ValidateForm(dto.CheckoutForm); len(fieldErrs) > 0 {
			respondValidation(w, fieldErrs)
			return checkout.Request{}, false
		}
		addr = domain.ShippingAddress{
			Name:    dto.Name,
			Phone:   dto.Phone,
			Line1:   dto.Line1,
			Line2:   dto.Line2,
			City:    dto.City,
			State:   dto.State,
			Pincode: dto.Pincode,
			Country: dto.Country,
		}
		if addr.Country == "" {
			addr.Country = "India"
		}
	}

	c, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return checkout.Request{}, false
	}

	return checkout.Request{
		UserID:      userID,
		SessionID:   sessionID,
		Cart:        c,
		Address:     addr,
		Email:       dto.Email,
		SaveAddress: dto.SaveAddress && dto.AddressID == "",
	}, true
}

func (h *CheckoutHandler) PlaceCODOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var dto CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req, ok := h.buildRequest(ctx, w, r, dto)
	if !ok {
		return
	}

	ord, err := h.orchestrator.PlaceCODOrder(ctx, req)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		return
	}
	recordOrderPlaced(string(domain.PaymentMethodCOD))
	respondJSON(w, http.StatusCreated, ord)
}

// CreateGatewayOrder opens the online payment sequence and returns what the
// gateway's collection UI needs.
func (h *CheckoutHandler) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var dto CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req, ok := h.buildRequest(ctx, w, r, dto)
	if !ok {
		return
	}

	resp, err := h.orchestrator.BeginOnlinePayment(ctx, req)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	}
	if errors.Is(err, gateway.ErrGatewayUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "gateway_unavailable", "payment gateway unavailable, please retry")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start payment")
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// VerifyPayment is the success-callback endpoint. Verification failure is a
// 402: the durable order stays pending and the cart is untouched.
func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var dto VerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if dto.GatewayOrderID == "" || dto.GatewayPaymentID == "" || dto.Signature == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order id, payment id and signature are required")
		return
	}

	ord, err := h.orchestrator.ConfirmPayment(ctx, checkout.ConfirmRequest{
		UserID:    getUserID(r.Context()),
		SessionID: getSessionID(r.Context()),
		Proof: gateway.PaymentProof{
			OrderRef:   dto.GatewayOrderID,
			PaymentRef: dto.GatewayPaymentID,
			Signature:  dto.Signature,
		},
		Email: dto.Email,
	})
	switch {
	case errors.Is(err, checkout.ErrVerificationFailed):
		respondError(w, http.StatusPaymentRequired, "verification_failed", "payment signature verification failed")
		return
	case errors.Is(err, checkout.ErrWrongUser):
		respondError(w, http.StatusForbidden, "forbidden", "payment belongs to another user")
		return
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "no order for this payment")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to confirm payment")
		return
	}
	recordOrderPlaced(string(domain.PaymentMethodOnline))
	respondJSON(w, http.StatusOK, ord)
}
