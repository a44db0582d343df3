package domain

// PricingBreakdown is derived from a cart and a payment method selector. It is
// recomputed on every request and only persisted as part of an Order snapshot.
type PricingBreakdown struct {
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
	Shipping  float64 `bson:"shipping" json:"shipping"`
	Tax       float64 `bson:"tax" json:"tax"`
	Surcharge float64 `bson:"surcharge" json:"surcharge"`
	Discount  float64 `bson:"discount" json:"discount"`
	Total     float64 `bson:"total" json:"total"`
	ItemCount int     `bson:"item_count" json:"itemCount"`
}
