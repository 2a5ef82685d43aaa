// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when the (user, product) pair already has a review.
	ErrDuplicateReview = errors.New("review already exists for this user and product")
)

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review. The unique (user, product) constraint
	// surfaces as ErrDuplicateReview.
	Create(ctx context.Context, review *entity.Review) error

	// FindByProductID retrieves all reviews of a product, newest first.
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// FindByUserAndProduct retrieves the review a user left on a product.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)
}
