// Package gateway abstracts the external payment provider. The orchestrator
// only sees this interface; the Razorpay implementation lives alongside it.
package gateway

import (
	"context"
	"errors"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrMalformedResponse  = errors.New("malformed gateway response")
)

// OrderRequest asks the gateway to open a charge attempt. Amount is rupees;
// the implementation converts to the gateway's smallest unit.
type OrderRequest struct {
	Amount   float64
	Currency string
	Receipt  string
}

// GatewayOrder is the gateway-side order object. Reference is the opaque
// gateway order reference, distinct from the internal order ID.
type GatewayOrder struct {
	Reference string `json:"orderRef"`
	KeyID     string `json:"key"`
	Amount    int64  `json:"amount"` // smallest currency unit
	Currency  string `json:"currency"`
}

// PaymentProof is the raw success-callback payload the client hands back.
// It is never trusted until VerifySignature passes server-side.
type PaymentProof struct {
	OrderRef   string `json:"orderRef"`
	PaymentRef string `json:"paymentRef"`
	Signature  string `json:"signature"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	// VerifySignature checks the proof against the gateway secret. A false
	// return is treated identically to an error by callers.
	VerifySignature(proof PaymentProof) bool
}
