package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager  repository.TransactionManager
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ReviewRepo repository.ReviewRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  params.TxManager,
		reviewRepo: params.ReviewRepo,
		logger:     params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateReview records a product review. The caller must have at least one
// delivered order containing the product, and may review each product once.
func (srv *reviewService) CreateReview(ctx context.Context, principal entity.Principal, input *usecase.CreateReviewInput) (*entity.Review, error) {
	var created *entity.Review
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()
		orderRepo := repoFactory.OrderRepo()
		reviewRepo := repoFactory.ReviewRepo()

		product, err := productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		review := &entity.Review{
			ID:        uuid.New(),
			UserID:    principal.UserID,
			ProductID: product.ID,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		if !review.RatingIsValid() {
			return domainerrors.ErrInvalidRating.WrapMessage("rating must be between 1 and 5")
		}

		if _, err := reviewRepo.FindByUserAndProduct(ctx, principal.UserID, product.ID); err == nil {
			return domainerrors.ErrReviewAlreadyExists.WrapMessage("product already reviewed by this user")
		} else if !errors.Is(err, repository.ErrReviewNotFound) {
			return errors.Wrap(err, "failed to check for existing review")
		}

		delivered, err := orderRepo.CountDeliveredWithProduct(ctx, principal.UserID, product.ID)
		if err != nil {
			return errors.Wrap(err, "failed to count delivered orders")
		}
		if delivered == 0 {
			return domainerrors.ErrReviewNotAllowed.WrapMessage("reviews require a delivered order containing the product")
		}

		if err := reviewRepo.Create(ctx, review); err != nil {
			// The unique constraint closes the check-then-create race.
			if errors.Is(err, repository.ErrDuplicateReview) {
				return domainerrors.ErrReviewAlreadyExists.WrapMessage("product already reviewed by this user")
			}

			return errors.Wrap(err, "failed to create review")
		}

		created = review

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute review creation")
	}

	srv.log(ctx).Info("Review created",
		slog.Any("userID", principal.UserID),
		slog.Any("productID", input.ProductID),
		slog.Int("rating", input.Rating),
	)

	return created, nil
}

// ListProductReviews returns all reviews of a product, newest first.
func (srv *reviewService) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list product reviews")
	}

	return reviews, nil
}
