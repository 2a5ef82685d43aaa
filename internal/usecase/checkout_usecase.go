// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CheckoutInput defines the data required to convert the caller's cart into an order.
type CheckoutInput struct {
	ShippingAddress string  `json:"shipping_address" validate:"required"`
	PhoneNumber     string  `json:"phone_number" validate:"required"`
	ShippingMethod  string  `json:"shipping_method" validate:"required"`
	Notes           *string `json:"notes"`
}

// CheckoutOutput returns the created order with its items.
type CheckoutOutput struct {
	Order *entity.Order `json:"order"`
}

// CheckoutUsecase is the order/inventory transaction engine. Checkout runs as
// one all-or-nothing unit: re-read the cart, re-validate every line against
// live stock, freeze unit prices into order items, create the order and its
// initial payment record, decrement stock, and drain the cart. On any failure
// nothing is visible.
type CheckoutUsecase interface {
	Checkout(ctx context.Context, principal entity.Principal, input *CheckoutInput) (*CheckoutOutput, error)

	// ListShippingMethods returns the configured shipping options.
	ListShippingMethods(ctx context.Context) []entity.ShippingMethod
}
