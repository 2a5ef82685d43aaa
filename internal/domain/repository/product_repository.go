// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrStockConflict is returned when a guarded stock decrement matches no row,
	// i.e. the product vanished or its stock dropped below the requested quantity
	// after validation. Inside a transaction this aborts the whole unit of work.
	ErrStockConflict = errors.New("stock update conflict")
)

// ProductListQuery narrows and pages a product listing.
type ProductListQuery struct {
	CategoryID *uuid.UUID // Only products in this category when set.
	SellerID   *uuid.UUID // Only products owned by this seller when set.
	Limit      int
	Offset     int
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDsForUpdate retrieves the given products with row-level locks,
	// so a checkout transaction can re-validate stock without racing a
	// concurrent checkout for the same products. Must run inside a transaction.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// List retrieves products matching the query, newest first, with the total match count.
	List(ctx context.Context, query ProductListQuery) ([]*entity.Product, int64, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product by its ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity from the product's stock,
	// guarded so stock can never go below zero. Returns ErrStockConflict when
	// the guard rejects the write.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
