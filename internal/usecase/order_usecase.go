// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ListOrdersInput pages an order listing. Status narrows the admin view.
type ListOrdersInput struct {
	Status   *entity.OrderStatus
	Page     int
	PageSize int
}

// UpdateOrderStatusInput defines an admin-driven fulfillment transition.
// TrackingNumber is required exactly when Status is "shipped".
type UpdateOrderStatusInput struct {
	Status         string  `json:"status" validate:"required"`
	TrackingNumber *string `json:"tracking_number"`
}

// OrderListOutput returns one page of orders with the total match count.
type OrderListOutput struct {
	Orders   []*entity.Order `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// OrderUsecase defines the order lifecycle operations after checkout.
//
// Role gating: users see and cancel only their own orders; admin transitions
// (process, ship, deliver) additionally require the order to be paid.
// Transitions never touch inventory; in particular cancellation does not
// restock the purchased quantities.
type OrderUsecase interface {
	ListOrders(ctx context.Context, principal entity.Principal, input *ListOrdersInput) (*OrderListOutput, error)
	GetOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// CancelOrder is the user-initiated transition pending -> cancelled,
	// allowed only for the owning user while the order is still unpaid.
	CancelOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// UpdateStatus is the admin-initiated fulfillment transition.
	UpdateStatus(ctx context.Context, principal entity.Principal, orderID uuid.UUID, input *UpdateOrderStatusInput) (*entity.Order, error)

	// ConfirmPayment marks an unpaid order as paid, updating the payment
	// record in lockstep. Admin only.
	ConfirmPayment(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// PaymentQR renders the payment QR code PNG for an unpaid order owned by the caller.
	PaymentQR(ctx context.Context, principal entity.Principal, orderID uuid.UUID) ([]byte, error)
}
