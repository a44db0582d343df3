package gateway

import (
	"context"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewRazorpayGateway(keyID, secret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

// CreateOrder opens a Razorpay order for the given amount. The SDK call has
// no context support, so it runs in a goroutine and the context deadline
// abandons it; an abandoned call is treated the same as a gateway failure.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	paise := int64(math.Round(req.Amount * 100))
	data := map[string]interface{}{
		"amount":   paise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := g.client.Order.Create(data, nil)
		ch <- result{body, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, res.err)
		}
		ref, ok := res.body["id"].(string)
		if !ok || ref == "" {
			return nil, ErrMalformedResponse
		}
		return &GatewayOrder{
			Reference: ref,
			KeyID:     g.keyID,
			Amount:    paise,
			Currency:  req.Currency,
		}, nil
	}
}

func (g *RazorpayGateway) VerifySignature(proof PaymentProof) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   proof.OrderRef,
		"razorpay_payment_id": proof.PaymentRef,
	}
	return utils.VerifyPaymentSignature(params, proof.Signature, g.secret)
}
