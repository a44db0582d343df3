package order

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saitejagovikar/my-website-sub000/internal/domain"
)

// CheckoutForm is the raw checkout input before validation.
type CheckoutForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country,omitempty"`
}

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidateForm runs field-level checks and returns a field→message map.
// It never errors; an empty map means the form is valid. Halting submission
// and surfacing messages inline is the caller's job.
func ValidateForm(form CheckoutForm) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "name is required"
	}
	if !emailPattern.MatchString(form.Email) {
		errs["email"] = "enter a valid email address"
	}
	if !phonePattern.MatchString(form.Phone) {
		errs["phone"] = "enter a valid 10-digit phone number"
	}
	if strings.TrimSpace(form.Line1) == "" {
		errs["line1"] = "address is required"
	}
	if strings.TrimSpace(form.City) == "" {
		errs["city"] = "city is required"
	}
	if strings.TrimSpace(form.State) == "" {
		errs["state"] = "state is required"
	}
	if !pincodePattern.MatchString(form.Pincode) {
		errs["pincode"] = "enter a valid 6-digit pincode"
	}
	return errs
}

// BuildPayload assembles the immutable order snapshot: a copy of each cart
// line, a copy of the address (not a reference) and the full pricing
// breakdown. Pure assembly; nothing is persisted here.
//
// The status fork happens at build time, before submission: a COD order is
// already confirmed with payment pending, while an online order starts
// pending/pending and only the payment orchestrator moves it forward. The
// pending online record existing before gateway confirmation is itself the
// audit trail for abandoned payments.
func BuildPayload(cart *domain.Cart, addr domain.ShippingAddress, pricing domain.PricingBreakdown, method domain.PaymentMethod) *domain.Order {
	items := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, domain.OrderLine{
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			Size:           l.Size,
			Customizations: l.Customizations,
			Subtotal:       l.UnitPrice * float64(l.Quantity),
		})
	}

	// the embedded copy is detached from the saved-address record
	addr.ID = primitive.NilObjectID
	addr.IsDefault = false

	ord := &domain.Order{
		UserID:          cart.OwnerID,
		Items:           items,
		ShippingAddress: addr,
		Payment:         domain.PaymentInfo{Method: method},
		Pricing:         pricing,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       time.Now(),
	}
	if method == domain.PaymentMethodCOD {
		ord.Status = domain.OrderStatusConfirmed
	}
	return ord
}
