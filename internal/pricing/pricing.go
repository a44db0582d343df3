// Package pricing computes the checkout price breakdown. Everything here is
// pure: no I/O, no clock, safe to call on every request.
package pricing

import (
	"math"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

// Amounts are rupees.
const (
	FreeShippingThreshold = 999
	FlatShippingFee       = 49
	TaxRate               = 0.05
	CODSurcharge          = 20
)

// Compute derives the full breakdown from a cart and a payment method
// selector. Shipping is free at or above the threshold, tax is a percentage
// of the subtotal, and the COD surcharge applies only to cash on delivery.
// Discount is reserved for coupon support and is always zero today, but the
// total is still clamped so a future discount can never drive it negative.
func Compute(cart *domain.Cart, method domain.PaymentMethod) domain.PricingBreakdown {
	b := domain.PricingBreakdown{}
	for _, line := range cart.Lines {
		b.Subtotal += line.UnitPrice * float64(line.Quantity)
		b.ItemCount += line.Quantity
	}

	if b.Subtotal < FreeShippingThreshold {
		b.Shipping = FlatShippingFee
	}

	b.Tax = round(b.Subtotal * TaxRate)

	if method == domain.PaymentMethodCOD {
		b.Surcharge = CODSurcharge
	}

	b.Total = b.Subtotal + b.Shipping + b.Tax + b.Surcharge - b.Discount
	if b.Total < 0 {
		b.Total = 0
	}
	return b
}

// round keeps money at paise precision.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
