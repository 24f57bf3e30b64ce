package models

import "time"

// CartItem is a single purchasable line in a cart. Two items represent the
// same line only when ProductID, Size and Plating all match; quantity is
// folded on that key, never on ProductID alone.
type CartItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Size      string  `json:"size,omitempty"`
	Plating   string  `json:"plating,omitempty"`
	Gemstone  string  `json:"gemstone,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// MergeKey identifies a cart line for quantity folding.
type MergeKey struct {
	ProductID string
	Size      string
	Plating   string
}

// Key returns the merge key of the item.
func (i CartItem) Key() MergeKey {
	return MergeKey{ProductID: i.ProductID, Size: i.Size, Plating: i.Plating}
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CheckoutEvent is published to Kafka when a user checks out their cart.
type CheckoutEvent struct {
	Event     string     `json:"event"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Timestamp time.Time  `json:"timestamp"`
}
