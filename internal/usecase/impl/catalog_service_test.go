package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/config"
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

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	service      usecase.CatalogUsecase
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	reviewRepo   *mockRepo.MockReviewRepository
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewCatalogService(CatalogServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		ReviewRepo:   reviewRepo,
		Config:       &config.Config{Catalog: &config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 50}},
		Logger:       logger,
	})

	return catalogServiceFixtures{
		service:      service,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

func TestCatalogService_ListProducts_DefaultsAndClampsPaging(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := userPrincipal()

	// Page zero falls back to page 1, a too-large page size is clamped to 50.
	fx.productRepo.EXPECT().
		List(ctx, mock.MatchedBy(func(query repository.ProductListQuery) bool {
			return query.Limit == 50 && query.Offset == 0 && query.SellerID == nil
		})).
		Return([]*entity.Product{}, 0, nil)

	output, err := fx.service.ListProducts(ctx, principal, &usecase.ListProductsInput{Page: 0, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 50, output.PageSize)
}

func TestCatalogService_ListProducts_FiltersByCategory(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := userPrincipal()
	categoryID := uuid.New()

	fx.productRepo.EXPECT().
		List(ctx, mock.MatchedBy(func(query repository.ProductListQuery) bool {
			return query.CategoryID != nil && *query.CategoryID == categoryID &&
				query.Limit == 20 && query.Offset == 20
		})).
		Return([]*entity.Product{{ID: uuid.New(), Name: "Keyboard"}}, 21, nil)

	output, err := fx.service.ListProducts(ctx, principal, &usecase.ListProductsInput{
		CategoryID: &categoryID,
		Page:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(21), output.Total)
	assert.Len(t, output.Products, 1)
}

func TestCatalogService_ListProducts_SellerOnlyRequiresAdmin(t *testing.T) {
	fx := createTestCatalogService(t)

	output, err := fx.service.ListProducts(context.Background(), userPrincipal(), &usecase.ListProductsInput{SellerOnly: true})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCatalogService_ListProducts_SellerOnlyScopesToCaller(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := adminPrincipal()

	fx.productRepo.EXPECT().
		List(ctx, mock.MatchedBy(func(query repository.ProductListQuery) bool {
			return query.SellerID != nil && *query.SellerID == principal.UserID
		})).
		Return([]*entity.Product{}, 0, nil)

	_, err := fx.service.ListProducts(ctx, principal, &usecase.ListProductsInput{SellerOnly: true, Page: 1})

	require.NoError(t, err)
}

func TestCatalogService_GetProduct_IncludesReviews(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 10000}
	reviews := []*entity.Review{{ID: uuid.New(), ProductID: product.ID, Rating: 5}}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.reviewRepo.EXPECT().FindByProductID(ctx, product.ID).Return(reviews, nil)

	output, err := fx.service.GetProduct(ctx, product.ID)

	require.NoError(t, err)
	assert.Equal(t, product.ID, output.Product.ID)
	assert.Len(t, output.Reviews, 1)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(nil, repository.ErrProductNotFound)

	output, err := fx.service.GetProduct(ctx, productID)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCatalogService_CreateProduct_RequiresAdmin(t *testing.T) {
	fx := createTestCatalogService(t)

	input := &usecase.CreateProductInput{Name: "Keyboard", Price: 10000, Stock: 5}

	product, err := fx.service.CreateProduct(context.Background(), userPrincipal(), input)

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := adminPrincipal()
	categoryID := uuid.New()
	input := &usecase.CreateProductInput{
		Name:       "Keyboard",
		Price:      10000,
		Stock:      5,
		CategoryID: &categoryID,
	}

	fx.categoryRepo.EXPECT().
		FindByID(ctx, categoryID).
		Return(&entity.Category{ID: categoryID, Name: "Peripherals"}, nil)
	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			assert.Equal(t, principal.UserID, product.SellerID)
			assert.Equal(t, "Keyboard", product.Name)
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, principal.UserID, product.SellerID)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	categoryID := uuid.New()
	input := &usecase.CreateProductInput{Name: "Keyboard", CategoryID: &categoryID}

	fx.categoryRepo.EXPECT().
		FindByID(ctx, categoryID).
		Return(nil, repository.ErrCategoryNotFound)

	product, err := fx.service.CreateProduct(ctx, adminPrincipal(), input)

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCatalogService_UpdateProduct_ForeignProductRejected(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := adminPrincipal()
	product := &entity.Product{ID: uuid.New(), SellerID: uuid.New(), Name: "Keyboard"}
	newName := "Mechanical Keyboard"

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	updated, err := fx.service.UpdateProduct(ctx, principal, product.ID, &usecase.UpdateProductInput{Name: &newName})

	assert.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrProductOwnershipViolation))
}

func TestCatalogService_UpdateProduct_PartialUpdate(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := adminPrincipal()
	product := &entity.Product{
		ID:          uuid.New(),
		SellerID:    principal.UserID,
		Name:        "Keyboard",
		Description: "Clicky",
		Price:       10000,
		Stock:       5,
	}
	newPrice := int64(12000)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, updated *entity.Product) {
			assert.Equal(t, int64(12000), updated.Price)
			// Untouched fields keep their values.
			assert.Equal(t, "Keyboard", updated.Name)
			assert.Equal(t, 5, updated.Stock)
		}).
		Return(nil)

	updated, err := fx.service.UpdateProduct(ctx, principal, product.ID, &usecase.UpdateProductInput{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, int64(12000), updated.Price)
}

func TestCatalogService_DeleteProduct_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := adminPrincipal()
	product := &entity.Product{ID: uuid.New(), SellerID: principal.UserID}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().Delete(ctx, product.ID).Return(nil)

	err := fx.service.DeleteProduct(ctx, principal, product.ID)

	assert.NoError(t, err)
}

func TestCatalogService_CreateCategory_RequiresAdmin(t *testing.T) {
	fx := createTestCatalogService(t)

	category, err := fx.service.CreateCategory(context.Background(), userPrincipal(), &usecase.CreateCategoryInput{Name: "Peripherals"})

	assert.Error(t, err)
	assert.Nil(t, category)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCatalogService_DeleteCategory_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	categoryID := uuid.New()

	fx.categoryRepo.EXPECT().
		FindByID(ctx, categoryID).
		Return(&entity.Category{ID: categoryID, Name: "Peripherals"}, nil)
	fx.categoryRepo.EXPECT().Delete(ctx, categoryID).Return(nil)

	err := fx.service.DeleteCategory(ctx, adminPrincipal(), categoryID)

	assert.NoError(t, err)
}
