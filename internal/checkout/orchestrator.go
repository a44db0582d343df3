package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
	"github.com/saitejagovikar/my-website-sub000/internal/gateway"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
	"github.com/saitejagovikar/my-website-sub000/internal/pricing"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrVerificationFailed = errors.New("payment signature verification failed")
	ErrIllegalTransition  = errors.New("illegal checkout status transition")
	ErrOrderAlreadyFailed = errors.New("payment already failed for this order")
	ErrWrongUser          = errors.New("gateway order belongs to another user")
)

// CartClearer empties the session cart and the user's mirror after an order
// is committed.
type CartClearer interface {
	ClearAll(ctx context.Context, sessionID, userID string) error
}

// AddressSaver persists the shipping address when the user opted in at
// checkout.
type AddressSaver interface {
	CreateAddress(ctx context.Context, addr *domain.ShippingAddress) error
}

// Request carries everything one checkout attempt needs. The cart is the
// session cart at submit time; the address is already validated form input or
// a saved-address selection.
type Request struct {
	UserID      string
	SessionID   string
	Cart        *domain.Cart
	Address     domain.ShippingAddress
	Email       string
	SaveAddress bool
}

// BeginResponse hands the client what the gateway collection UI needs.
type BeginResponse struct {
	Order        *domain.Order         `json:"order"`
	GatewayOrder *gateway.GatewayOrder `json:"gatewayOrder"`
}

// ConfirmRequest is the success-callback payload. The save-address choice is
// not here: it was stamped on the order when the sequence began and the
// callback cannot change it.
type ConfirmRequest struct {
	UserID    string
	SessionID string
	Proof     gateway.PaymentProof
	Email     string
}

// Orchestrator drives the payment sequence. Before signature verification
// every failure aborts the attempt; after verification the order is
// financially committed and side-effect failures are logged, never surfaced
// as order failures. That asymmetry is the component's core policy.
type Orchestrator struct {
	gateway        gateway.Gateway
	orders         order.Repository
	carts          CartClearer
	addresses      AddressSaver
	events         notify.Publisher
	gatewayTimeout time.Duration
	sfg            singleflight.Group // one finalization per gateway reference
}

func NewOrchestrator(gw gateway.Gateway, orders order.Repository, carts CartClearer, addresses AddressSaver, events notify.Publisher) *Orchestrator {
	return &Orchestrator{
		gateway:        gw,
		orders:         orders,
		carts:          carts,
		addresses:      addresses,
		events:         events,
		gatewayTimeout: 30 * time.Second,
	}
}

// PlaceCODOrder short-circuits the payment sequence: the order is built
// already confirmed with payment pending and no gateway call is made.
func (o *Orchestrator) PlaceCODOrder(ctx context.Context, req Request) (*domain.Order, error) {
	if req.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	status := StatusDraft
	if !CanTransitionTo(status, StatusCompleted) {
		return nil, ErrIllegalTransition
	}

	breakdown := pricing.Compute(req.Cart, domain.PaymentMethodCOD)
	ord := order.BuildPayload(req.Cart, req.Address, breakdown, domain.PaymentMethodCOD)
	ord.UserID = req.UserID
	ord.SaveAddress = req.SaveAddress

	if err := o.orders.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	status = StatusCompleted
	log.Printf("checkout: COD order %s placed, status %s", ord.OrderNumber, status)

	o.finishSideEffects(ctx, req.SessionID, req.Email, ord)
	return ord, nil
}

// BeginOnlinePayment runs the first half of the online sequence: open a
// gateway order, then create the durable pending/pending record stamped with
// the gateway reference. A gateway failure aborts with nothing persisted —
// the durable record only exists once there is a reference to audit.
func (o *Orchestrator) BeginOnlinePayment(ctx context.Context, req Request) (*BeginResponse, error) {
	if req.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	status := StatusDraft
	if !CanTransitionTo(status, StatusAwaitingGatewayOrder) {
		return nil, ErrIllegalTransition
	}
	status = StatusAwaitingGatewayOrder

	breakdown := pricing.Compute(req.Cart, domain.PaymentMethodOnline)

	gwCtx, cancel := context.WithTimeout(ctx, o.gatewayTimeout)
	defer cancel()
	gwOrder, err := o.gateway.CreateOrder(gwCtx, gateway.OrderRequest{
		Amount:   breakdown.Total,
		Currency: "INR",
		Receipt:  "rcpt_" + uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	ord := order.BuildPayload(req.Cart, req.Address, breakdown, domain.PaymentMethodOnline)
	ord.UserID = req.UserID
	ord.SaveAddress = req.SaveAddress
	ord.Payment.TransactionID = gwOrder.Reference

	if err := o.orders.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	status = StatusAwaitingUserPayment
	log.Printf("checkout: order %s awaiting payment, gateway ref %s, status %s", ord.OrderNumber, gwOrder.Reference, status)

	return &BeginResponse{Order: ord, GatewayOrder: gwOrder}, nil
}

// ConfirmPayment runs the second half: server-side signature verification,
// then finalization. Gateways may retry the success callback, so the whole
// confirm path is collapsed per gateway reference and the payment-status
// write itself is idempotent — confirming twice leaves the order exactly as
// confirming once.
//
// A failed verification leaves the order pending/pending and the cart intact;
// nothing retries automatically.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, req ConfirmRequest) (*domain.Order, error) {
	v, err, _ := o.sfg.Do(req.Proof.OrderRef, func() (interface{}, error) {
		return o.confirm(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

func (o *Orchestrator) confirm(ctx context.Context, req ConfirmRequest) (*domain.Order, error) {
	status := StatusAwaitingUserPayment
	if !CanTransitionTo(status, StatusVerifyingSignature) {
		return nil, ErrIllegalTransition
	}
	status = StatusVerifyingSignature

	if !o.gateway.VerifySignature(req.Proof) {
		// a false verdict from the gateway is identical to an error
		log.Printf("checkout: signature verification failed for gateway ref %s, status %s", req.Proof.OrderRef, StatusFailed)
		return nil, ErrVerificationFailed
	}

	ord, err := o.orders.GetByTransactionID(ctx, req.Proof.OrderRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load order for gateway ref %s: %w", req.Proof.OrderRef, err)
	}
	if req.UserID != "" && ord.UserID != req.UserID {
		return nil, ErrWrongUser
	}

	// already finalized by an earlier callback delivery
	if ord.PaymentStatus == domain.PaymentStatusCompleted {
		return ord, nil
	}
	if ord.PaymentStatus.IsTerminal() {
		return nil, ErrOrderAlreadyFailed
	}

	if !CanTransitionTo(status, StatusFinalizing) {
		return nil, ErrIllegalTransition
	}
	status = StatusFinalizing
	if err := o.orders.CompletePayment(ctx, ord.ID.Hex(), req.Proof.PaymentRef); err != nil {
		return nil, fmt.Errorf("failed to finalize order %s: %w", ord.OrderNumber, err)
	}
	ord.PaymentStatus = domain.PaymentStatusCompleted
	ord.Status = domain.OrderStatusConfirmed
	ord.Payment.PaymentID = req.Proof.PaymentRef

	status = StatusCompleted
	log.Printf("checkout: order %s finalized, status %s", ord.OrderNumber, status)

	o.finishSideEffects(ctx, req.SessionID, req.Email, ord)
	return ord, nil
}

// finishSideEffects runs the lenient post-commit steps. The order is already
// placed; a failure here is cosmetic and must never surface as an order
// failure.
func (o *Orchestrator) finishSideEffects(ctx context.Context, sessionID, email string, ord *domain.Order) {
	if err := o.carts.ClearAll(ctx, sessionID, ord.UserID); err != nil {
		log.Printf("checkout: cart clear after order %s failed: %v", ord.OrderNumber, err)
	}

	if ord.SaveAddress {
		addr := ord.ShippingAddress
		addr.UserID = ord.UserID
		if err := o.addresses.CreateAddress(ctx, &addr); err != nil {
			log.Printf("checkout: address save after order %s failed: %v", ord.OrderNumber, err)
		}
	}

	notify.FireAndForget(o.events, notify.Event{
		Type:        notify.EventOrderConfirmed,
		OrderID:     ord.ID.Hex(),
		OrderNumber: ord.OrderNumber,
		UserID:      ord.UserID,
		Email:       email,
		Total:       ord.Pricing.Total,
	})
}
