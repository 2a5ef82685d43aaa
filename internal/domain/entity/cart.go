// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a user's shopping cart. Exactly one cart exists per user; the cart
// row survives checkout, only its items are drained.
type Cart struct {
	ID        uuid.UUID   // The Global Unique Identifier (GUID) for the cart.
	UserID    uuid.UUID   // The owning user. Unique: one cart per user.
	Items     []*CartItem // The current line items, possibly empty.
	CreatedAt time.Time   // Timestamp of when this cart was created.
	UpdatedAt time.Time   // Timestamp of the last modification.
}

// Subtotal returns the sum of live unit price times quantity over all items.
// It reflects current product prices, unlike an order whose prices are frozen.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		if item.Product != nil {
			total += item.Product.Price * int64(item.Quantity)
		}
	}

	return total
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItem is one product line in a cart. Quantity is at least 1; staying
// within product stock is a soft constraint until checkout re-validates it.
type CartItem struct {
	ID        uuid.UUID // The unique ID for this cart line.
	CartID    uuid.UUID // The cart this line belongs to.
	ProductID uuid.UUID // The referenced product.
	Quantity  int       // Requested units, >= 1.
	Product   *Product  // The live product, populated on reads for price/stock checks.
	CreatedAt time.Time // Timestamp of when this line was added.
	UpdatedAt time.Time // Timestamp of the last quantity change.
}
