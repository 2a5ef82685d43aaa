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

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service   usecase.CartUsecase
	txManager *mockRepo.MockTransactionManager
	cartRepo  *mockRepo.MockCartRepository
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	cartRepo := mockRepo.NewMockCartRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewCartService(CartServiceParams{
		TxManager: txManager,
		CartRepo:  cartRepo,
		Logger:    logger,
	})

	return cartServiceFixtures{
		service:   service,
		txManager: txManager,
		cartRepo:  cartRepo,
	}
}

func TestCartService_GetCart_NoCartYieldsEmptyCart(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, principal.UserID).
		Return(nil, repository.ErrCartNotFound)

	output, err := fx.service.GetCart(ctx, principal)

	require.NoError(t, err)
	assert.Equal(t, principal.UserID, output.Cart.UserID)
	assert.Empty(t, output.Cart.Items)
	assert.Equal(t, int64(0), output.Subtotal)
}

func TestCartService_GetCart_SubtotalUsesLivePrices(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	cartID := uuid.New()
	cart := &entity.Cart{
		ID:     cartID,
		UserID: principal.UserID,
		Items: []*entity.CartItem{
			{ID: uuid.New(), CartID: cartID, Quantity: 2, Product: &entity.Product{Price: 10000}},
			{ID: uuid.New(), CartID: cartID, Quantity: 1, Product: &entity.Product{Price: 5000}},
		},
	}

	fx.cartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)

	output, err := fx.service.GetCart(ctx, principal)

	require.NoError(t, err)
	assert.Equal(t, int64(25000), output.Subtotal)
}

func TestCartService_AddItem_CreatesCartAndLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 10000, Stock: 5}
	input := &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 2}

	var createdCartID uuid.UUID

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockCartRepo.EXPECT().
				FindByUserID(ctx, principal.UserID).
				Return(nil, repository.ErrCartNotFound)
			mockCartRepo.EXPECT().
				CreateCart(ctx, mock.AnythingOfType("*entity.Cart")).
				Run(func(ctx context.Context, cart *entity.Cart) {
					createdCartID = cart.ID
					assert.Equal(t, principal.UserID, cart.UserID)
				}).
				Return(nil)
			mockCartRepo.EXPECT().
				FindItem(ctx, mock.AnythingOfType("uuid.UUID"), product.ID).
				Return(nil, repository.ErrCartItemNotFound)
			mockCartRepo.EXPECT().
				CreateItem(ctx, mock.AnythingOfType("*entity.CartItem")).
				Run(func(ctx context.Context, item *entity.CartItem) {
					assert.Equal(t, createdCartID, item.CartID)
					assert.Equal(t, 2, item.Quantity)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, principal.UserID).
		Return(&entity.Cart{UserID: principal.UserID, Items: []*entity.CartItem{
			{ProductID: product.ID, Quantity: 2, Product: product},
		}}, nil)

	output, err := fx.service.AddItem(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, int64(20000), output.Subtotal)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 10000, Stock: 5}
	cart := &entity.Cart{ID: uuid.New(), UserID: principal.UserID}
	existing := &entity.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	input := &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 3}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)
			mockCartRepo.EXPECT().FindItem(ctx, cart.ID, product.ID).Return(existing, nil)
			// 2 already in the cart + 3 added = 5, exactly the available stock.
			mockCartRepo.EXPECT().UpdateItemQuantity(ctx, existing.ID, 5).Return(nil)

			return fn(mockFactory)
		})

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, principal.UserID).
		Return(&entity.Cart{ID: cart.ID, UserID: principal.UserID, Items: []*entity.CartItem{
			{ID: existing.ID, ProductID: product.ID, Quantity: 5, Product: product},
		}}, nil)

	output, err := fx.service.AddItem(ctx, principal, input)

	require.NoError(t, err)
	require.Len(t, output.Cart.Items, 1)
	assert.Equal(t, 5, output.Cart.Items[0].Quantity)
}

func TestCartService_AddItem_MergedQuantityBeyondStockRejected(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 10000, Stock: 5}
	cart := &entity.Cart{ID: uuid.New(), UserID: principal.UserID}
	existing := &entity.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 3}
	input := &usecase.AddCartItemInput{ProductID: product.ID, Quantity: 3}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)
			mockCartRepo.EXPECT().FindItem(ctx, cart.ID, product.ID).Return(existing, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.AddItem(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)

	var stockErr *domainerrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	input := &usecase.AddCartItemInput{ProductID: uuid.New(), Quantity: 1}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, input.ProductID).
				Return(nil, repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.AddItem(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCartService_UpdateItemQuantity_SetsAbsoluteQuantity(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 10000, Stock: 5}
	cart := &entity.Cart{ID: uuid.New(), UserID: principal.UserID}
	item := &entity.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 4}
	input := &usecase.UpdateCartItemInput{Quantity: 1}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)
			mockCartRepo.EXPECT().FindItem(ctx, cart.ID, product.ID).Return(item, nil)
			mockProductRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
			mockCartRepo.EXPECT().UpdateItemQuantity(ctx, item.ID, 1).Return(nil)

			return fn(mockFactory)
		})

	fx.cartRepo.EXPECT().
		FindByUserID(ctx, principal.UserID).
		Return(&entity.Cart{ID: cart.ID, UserID: principal.UserID, Items: []*entity.CartItem{
			{ID: item.ID, ProductID: product.ID, Quantity: 1, Product: product},
		}}, nil)

	output, err := fx.service.UpdateItemQuantity(ctx, principal, product.ID, input)

	require.NoError(t, err)
	require.Len(t, output.Cart.Items, 1)
	assert.Equal(t, 1, output.Cart.Items[0].Quantity)
}

func TestCartService_UpdateItemQuantity_MissingLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	productID := uuid.New()
	cart := &entity.Cart{ID: uuid.New(), UserID: principal.UserID}
	input := &usecase.UpdateCartItemInput{Quantity: 2}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)
			mockCartRepo.EXPECT().
				FindItem(ctx, cart.ID, productID).
				Return(nil, repository.ErrCartItemNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.UpdateItemQuantity(ctx, principal, productID, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound))
}

func TestCartService_RemoveItem_Idempotent(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	principal := userPrincipal()
	productID := uuid.New()
	cart := &entity.Cart{ID: uuid.New(), UserID: principal.UserID}

	// Removing a line that is not in the cart succeeds without effect.
	fx.cartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil).Once()
	fx.cartRepo.EXPECT().DeleteItem(ctx, cart.ID, productID).Return(nil)
	fx.cartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil).Once()

	output, err := fx.service.RemoveItem(ctx, principal, productID)

	require.NoError(t, err)
	assert.Empty(t, output.Cart.Items)
}
