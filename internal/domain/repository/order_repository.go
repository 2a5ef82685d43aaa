// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderListQuery pages an order listing.
type OrderListQuery struct {
	UserID *uuid.UUID          // Only orders owned by this user when set.
	Status *entity.OrderStatus // Only orders in this status when set.
	Limit  int
	Offset int
}

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// Create persists a new order together with its items and optional payment record.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order with its items and payment.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List retrieves orders matching the query, newest first, with the total match count.
	List(ctx context.Context, query OrderListQuery) ([]*entity.Order, int64, error)

	// UpdateStatus writes a new fulfillment status, and the tracking number
	// when one is supplied. Callers validate the transition first; this method
	// only persists it.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus, trackingNumber *string) error

	// UpdatePaymentStatus writes a new payment status on the order and its
	// payment record in the same statement scope.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error

	// CountDeliveredWithProduct returns how many delivered orders of the user
	// contain the given product. Backs the purchased-before-review rule.
	CountDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (int64, error)
}
