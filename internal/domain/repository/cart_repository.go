// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a user has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart line is not found.
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the standard operations for cart persistence.
// Reads populate each item's live Product so callers can check price and stock.
type CartRepository interface {
	// FindByUserID retrieves the user's cart with its items and their products.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// CreateCart persists a new empty cart for the user.
	CreateCart(ctx context.Context, cart *entity.Cart) error

	// FindItem retrieves a single cart line by cart and product.
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error)

	// CreateItem persists a new cart line.
	CreateItem(ctx context.Context, item *entity.CartItem) error

	// UpdateItemQuantity sets the quantity of an existing cart line.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// DeleteItem removes a cart line by cart and product. Deleting an absent
	// line is not an error.
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error

	// DeleteItemsByCartID removes every line of a cart. The cart row persists.
	DeleteItemsByCartID(ctx context.Context, cartID uuid.UUID) error
}
