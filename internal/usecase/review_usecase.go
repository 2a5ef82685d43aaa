// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to review a product.
type CreateReviewInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment"`
}

// ReviewUsecase defines product review operations. A user may review a
// product once, and only after a delivered order containing it.
type ReviewUsecase interface {
	CreateReview(ctx context.Context, principal entity.Principal, input *CreateReviewInput) (*entity.Review, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)
}
