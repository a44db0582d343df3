package domain

import (
	"sort"
	"strings"
	"time"
)

// CartLine is a single purchasable entry in a cart. Two lines are the same
// purchasable thing iff their Key() matches.
type CartLine struct {
	ProductID      string            `bson:"product_id" json:"productId"`
	Name           string            `bson:"name" json:"name"`
	UnitPrice      float64           `bson:"unit_price" json:"unitPrice"`
	Image          string            `bson:"image,omitempty" json:"image,omitempty"`
	Size           string            `bson:"size,omitempty" json:"size,omitempty"`
	Quantity       int               `bson:"quantity" json:"quantity"`
	Customizations map[string]string `bson:"customizations,omitempty" json:"customizations,omitempty"`
}

// Key returns the line's identity key: product, size and a canonical
// fingerprint of the customizations. Map iteration order must not leak into
// the key, so entries are sorted before joining.
func (l CartLine) Key() string {
	var b strings.Builder
	b.WriteString(l.ProductID)
	b.WriteByte('|')
	b.WriteString(l.Size)
	if len(l.Customizations) > 0 {
		keys := make([]string, 0, len(l.Customizations))
		for k := range l.Customizations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte('|')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(l.Customizations[k])
		}
	}
	return b.String()
}

// Cart is an ordered sequence of lines. OwnerID is empty while the cart
// belongs to an anonymous session and is set once a user claims it.
type Cart struct {
	OwnerID   string     `bson:"owner_id" json:"ownerId,omitempty"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

// AddLine inserts the line or, when a line with the same identity key already
// exists, increments its quantity instead of appending a duplicate.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	key := line.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity updates the quantity of the line with the given identity key.
// A quantity below 1 removes the line. Returns false if no line matched.
func (c *Cart) SetQuantity(key string, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			if quantity < 1 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i].Quantity = quantity
			}
			return true
		}
	}
	return false
}

// RemoveLine deletes the line with the given identity key. Returns false if
// no line matched.
func (c *Cart) RemoveLine(key string) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// MergeCarts combines a session-local cart with the user's server-mirrored
// cart at login time.
//
// On an account switch the local cart is discarded outright so one identity's
// cart never leaks into another account. Otherwise the remote cart wins on
// conflict: only local lines whose identity key is absent from the remote cart
// are appended, and quantities are never summed. That asymmetry keeps repeated
// merges from drifting quantities upward.
//
// The second return value reports whether the merge added any lines beyond
// what the remote cart already had; the caller persists the result back to the
// mirror synchronously when it did.
func MergeCarts(local, remote *Cart, accountSwitch bool) (*Cart, bool) {
	merged := &Cart{
		OwnerID:   remote.OwnerID,
		CreatedAt: remote.CreatedAt,
		UpdatedAt: time.Now(),
	}
	merged.Lines = append(merged.Lines, remote.Lines...)

	if accountSwitch {
		return merged, false
	}

	seen := make(map[string]struct{}, len(remote.Lines))
	for _, l := range remote.Lines {
		seen[l.Key()] = struct{}{}
	}

	added := false
	for _, l := range local.Lines {
		if _, ok := seen[l.Key()]; ok {
			continue
		}
		merged.Lines = append(merged.Lines, l)
		seen[l.Key()] = struct{}{}
		added = true
	}
	return merged, added
}
