// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddCartItemInput defines the data required to add a product to the cart.
type AddCartItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemInput defines the data required to change a cart line's quantity.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartOutput returns the cart with its live subtotal.
type CartOutput struct {
	Cart     *entity.Cart `json:"cart"`
	Subtotal int64        `json:"subtotal"`
}

// CartUsecase defines the interface for cart mutation and retrieval.
//
// Quantity policy: a request that would push a line's quantity beyond the
// product's live stock is rejected, never clamped. Checkout re-validates
// regardless, since stock may drift after an item is added.
type CartUsecase interface {
	GetCart(ctx context.Context, principal entity.Principal) (*CartOutput, error)
	AddItem(ctx context.Context, principal entity.Principal, input *AddCartItemInput) (*CartOutput, error)
	UpdateItemQuantity(ctx context.Context, principal entity.Principal, productID uuid.UUID, input *UpdateCartItemInput) (*CartOutput, error)
	RemoveItem(ctx context.Context, principal entity.Principal, productID uuid.UUID) (*CartOutput, error)
}
