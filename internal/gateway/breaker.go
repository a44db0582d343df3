package gateway

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// WithBreaker wraps a Gateway so repeated CreateOrder failures trip a circuit
// and later attempts fail fast with ErrGatewayUnavailable instead of queueing
// on a provider outage. Signature verification is local HMAC work and is not
// routed through the breaker.
type BreakerGateway struct {
	inner   Gateway
	breaker *gobreaker.CircuitBreaker[*GatewayOrder]
}

func WithBreaker(inner Gateway) *BreakerGateway {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("gateway breaker %s: %s -> %s", name, from, to)
		},
	}
	return &BreakerGateway{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*GatewayOrder](settings),
	}
}

func (g *BreakerGateway) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	order, err := g.breaker.Execute(func() (*GatewayOrder, error) {
		return g.inner.CreateOrder(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrGatewayUnavailable
	}
	return order, err
}

func (g *BreakerGateway) VerifySignature(proof PaymentProof) bool {
	return g.inner.VerifySignature(proof)
}
