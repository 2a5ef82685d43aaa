package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	service    usecase.ReviewUsecase
	txManager  *mockRepo.MockTransactionManager
	reviewRepo *mockRepo.MockReviewRepository
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewReviewService(ReviewServiceParams{
		TxManager:  txManager,
		ReviewRepo: reviewRepo,
		Logger:     logger,
	})

	return reviewServiceFixtures{
		service:    service,
		txManager:  txManager,
		reviewRepo: reviewRepo,
	}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard"}
	input := &usecase.CreateReviewInput{ProductID: product.ID, Rating: 5, Comment: "Great clack"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockReviewRepo.EXPECT().
				FindByUserAndProduct(ctx, principal.UserID, product.ID).
				Return(nil, repository.ErrReviewNotFound)
			mockOrderRepo.EXPECT().
				CountDeliveredWithProduct(ctx, principal.UserID, product.ID).
				Return(1, nil)
			mockReviewRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Review")).
				Run(func(ctx context.Context, review *entity.Review) {
					assert.Equal(t, principal.UserID, review.UserID)
					assert.Equal(t, 5, review.Rating)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	review, err := fx.service.CreateReview(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, product.ID, review.ProductID)
	assert.Equal(t, "Great clack", review.Comment)
}

func TestReviewService_CreateReview_NotPurchased(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard"}
	input := &usecase.CreateReviewInput{ProductID: product.ID, Rating: 4}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockReviewRepo.EXPECT().
				FindByUserAndProduct(ctx, principal.UserID, product.ID).
				Return(nil, repository.ErrReviewNotFound)
			// No delivered order contains the product.
			mockOrderRepo.EXPECT().
				CountDeliveredWithProduct(ctx, principal.UserID, product.ID).
				Return(0, nil)

			return fn(mockFactory)
		})

	review, err := fx.service.CreateReview(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, review)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewNotAllowed))
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard"}
	input := &usecase.CreateReviewInput{ProductID: product.ID, Rating: 3}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockReviewRepo.EXPECT().
				FindByUserAndProduct(ctx, principal.UserID, product.ID).
				Return(&entity.Review{ID: uuid.New(), UserID: principal.UserID, ProductID: product.ID}, nil)

			return fn(mockFactory)
		})

	review, err := fx.service.CreateReview(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, review)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewAlreadyExists))
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard"}
	input := &usecase.CreateReviewInput{ProductID: product.ID, Rating: 6}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

			return fn(mockFactory)
		})

	review, err := fx.service.CreateReview(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, review)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidRating))
}

func TestReviewService_ListProductReviews(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()
	reviews := []*entity.Review{
		{ID: uuid.New(), ProductID: productID, Rating: 5},
		{ID: uuid.New(), ProductID: productID, Rating: 2},
	}

	fx.reviewRepo.EXPECT().FindByProductID(ctx, productID).Return(reviews, nil)

	found, err := fx.service.ListProductReviews(ctx, productID)

	require.NoError(t, err)
	assert.Len(t, found, 2)
}
