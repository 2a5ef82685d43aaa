// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListProductsInput pages and filters the public product listing.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	SellerOnly bool // When true, restrict to the caller's own products (dashboard view).
	Page       int
	PageSize   int
}

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Price       int64      `json:"price" validate:"gte=0"`
	Stock       int        `json:"stock" validate:"gte=0"`
	ImageURL    string     `json:"image_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// UpdateProductInput defines the data required to update a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *int64     `json:"price" validate:"omitempty,gte=0"`
	Stock       *int       `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// --- Output DTOs ---

// ProductListOutput returns one page of products with the total match count.
type ProductListOutput struct {
	Products []*entity.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ProductDetailOutput returns a product together with its reviews.
type ProductDetailOutput struct {
	Product *entity.Product  `json:"product"`
	Reviews []*entity.Review `json:"reviews"`
}

// CatalogUsecase defines the interface for catalog browsing and seller product CRUD.
// Mutating operations take the calling principal and enforce ownership.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, principal entity.Principal, input *ListProductsInput) (*ProductListOutput, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetailOutput, error)
	CreateProduct(ctx context.Context, principal entity.Principal, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, principal entity.Principal, productID uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, principal entity.Principal, productID uuid.UUID) error

	ListCategories(ctx context.Context) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, principal entity.Principal, input *CreateCategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, principal entity.Principal, categoryID uuid.UUID) error
}
