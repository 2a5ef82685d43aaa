// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state of every new order.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing means the seller has started fulfilling the order.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped means the order left the warehouse with a tracking number.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered is a terminal state: the order reached the buyer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled is a terminal state reachable only from pending.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// orderTransitions is the complete transition table. Any pair not listed
// here is illegal; the stored status is never written speculatively.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo reports whether the transition table allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	// PaymentStatusUnpaid is the initial payment state of every new order.
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	// PaymentStatusPaid means payment has been captured for the order.
	PaymentStatusPaid PaymentStatus = "paid"
)

// String returns the string representation of the PaymentStatus.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// Order is an immutable record of a completed checkout. Only Status,
// PaymentStatus and TrackingNumber change after creation, and only
// through the status transition rules.
type Order struct {
	ID              uuid.UUID     // The Global Unique Identifier (GUID) for the order.
	UserID          uuid.UUID     // The buyer who placed the order.
	Status          OrderStatus   // Current fulfillment state.
	PaymentStatus   PaymentStatus // Current payment state.
	TotalAmount     int64         // Frozen total: sum of item prices plus shipping cost.
	ShippingAddress string        // Delivery address captured at checkout.
	PhoneNumber     string        // Contact phone captured at checkout.
	ShippingMethod  string        // Name of the chosen shipping method.
	ShippingCost    int64         // Frozen shipping cost in minor currency units.
	TrackingNumber  *string       // Set when the order ships; nil before that.
	Notes           *string       // Optional buyer notes.
	Items           []*OrderItem  // The purchased line items.
	Payment         *Payment      // The payment record opened at checkout, if any.
	CreatedAt       time.Time     // Timestamp of when this order was created.
	UpdatedAt       time.Time     // Timestamp of the last status change.
}

// CanBeCancelledBy reports whether the given principal may cancel this order.
// Only the owning user may cancel, only while the order is still pending and
// unpaid. Cancellation by anyone else, or after payment, is never allowed.
func (o *Order) CanBeCancelledBy(p Principal) bool {
	return p.UserID == o.UserID &&
		o.Status == OrderStatusPending &&
		o.PaymentStatus == PaymentStatusUnpaid
}

// OrderItem is one purchased product line. UnitPrice is copied from the
// product at checkout time and never recomputed: historical orders must not
// change when the live product price changes later.
type OrderItem struct {
	ID          uuid.UUID // The unique ID for this order line.
	OrderID     uuid.UUID // The order this line belongs to.
	ProductID   uuid.UUID // The purchased product.
	ProductName string    // Product name captured at checkout, for display on old orders.
	Quantity    int       // Purchased units, >= 1.
	UnitPrice   int64     // Frozen unit price in minor currency units.
}

// Subtotal returns the frozen line total.
func (i *OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Payment is the optional one-to-one payment record of an order.
type Payment struct {
	ID            uuid.UUID     // The unique ID for this payment record.
	OrderID       uuid.UUID     // The order this payment belongs to.
	PaymentMethod string        // e.g. "bank_transfer", "qris".
	Status        PaymentStatus // Moves in lockstep with the order's PaymentStatus.
	Amount        int64         // Amount due, equal to the order's TotalAmount.
	CreatedAt     time.Time     // Timestamp of when this payment record was opened.
	UpdatedAt     time.Time     // Timestamp of the last status change.
}
