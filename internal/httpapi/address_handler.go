package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saitejagovikar/my-website-sub000/internal/address"
	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

type AddressHandler struct {
	addresses *address.Service
	timeout   time.Duration
}

func NewAddressHandler(addresses *address.Service, timeout time.Duration) *AddressHandler {
	return &AddressHandler{addresses: addresses, timeout: timeout}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	addrs, err := h.addresses.ListAddresses(ctx, getUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load addresses")
		return
	}
	if addrs == nil {
		addrs = []domain.ShippingAddress{}
	}
	respondJSON(w, http.StatusOK, addrs)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var addr domain.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	addr.ID = primitive.NilObjectID
	addr.UserID = getUserID(r.Context())

	if err := h.addresses.CreateAddress(ctx, &addr); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save address")
		return
	}
	respondJSON(w, http.StatusCreated, addr)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "invalid address id")
		return
	}

	var addr domain.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	addr.ID = id
	addr.UserID = getUserID(r.Context())

	err = h.addresses.UpdateAddress(ctx, &addr)
	if errors.Is(err, address.ErrAddressNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "address not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update address")
		return
	}
	respondJSON(w, http.StatusOK, addr)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.addresses.DeleteAddress(ctx, getUserID(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, address.ErrAddressNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "address not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete address")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AddressHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profiles, err := h.addresses.ListProfiles(ctx, getUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load payment profiles")
		return
	}
	if profiles == nil {
		profiles = []domain.PaymentProfile{}
	}
	respondJSON(w, http.StatusOK, profiles)
}

func (h *AddressHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var profile domain.PaymentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(profile.Last4) != 4 {
		respondError(w, http.StatusBadRequest, "invalid_card", "last4 must be exactly four digits")
		return
	}
	profile.ID = primitive.NilObjectID
	profile.UserID = getUserID(r.Context())

	if err := h.addresses.CreateProfile(ctx, &profile); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save payment profile")
		return
	}
	respondJSON(w, http.StatusCreated, profile)
}

func (h *AddressHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "invalid profile id")
		return
	}

	var profile domain.PaymentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	profile.ID = id
	profile.UserID = getUserID(r.Context())

	err = h.addresses.UpdateProfile(ctx, &profile)
	if errors.Is(err, address.ErrProfileNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "payment profile not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update payment profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *AddressHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.addresses.DeleteProfile(ctx, getUserID(r.Context()), chi.URLParam(r, "id"))
	if errors.Is(err, address.ErrProfileNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "payment profile not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete payment profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
