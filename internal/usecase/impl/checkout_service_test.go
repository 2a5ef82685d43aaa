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

// checkoutServiceFixtures holds all test dependencies for checkout service tests.
type checkoutServiceFixtures struct {
	service   usecase.CheckoutUsecase
	txManager *mockRepo.MockTransactionManager
}

func createTestCheckoutService(t *testing.T) checkoutServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Shipping: &config.ShippingConfig{
			Methods: []config.ShippingMethodConfig{
				{Name: "regular", Cost: 2000},
				{Name: "express", Cost: 5000},
			},
		},
		Checkout: &config.CheckoutConfig{DefaultPaymentMethod: "bank_transfer"},
	}

	service := NewCheckoutService(CheckoutServiceParams{
		TxManager: txManager,
		Config:    cfg,
		Logger:    logger,
	})

	return checkoutServiceFixtures{
		service:   service,
		txManager: txManager,
	}
}

func checkoutCartFixture(userID uuid.UUID, productA, productB uuid.UUID) *entity.Cart {
	cartID := uuid.New()

	return &entity.Cart{
		ID:     cartID,
		UserID: userID,
		Items: []*entity.CartItem{
			{ID: uuid.New(), CartID: cartID, ProductID: productA, Quantity: 2},
			{ID: uuid.New(), CartID: cartID, ProductID: productB, Quantity: 1},
		},
	}
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	productA := uuid.New()
	productB := uuid.New()
	cart := checkoutCartFixture(principal.UserID, productA, productB)

	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "regular",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)

			mockProductRepo.EXPECT().
				FindByIDsForUpdate(ctx, []uuid.UUID{productA, productB}).
				Return([]*entity.Product{
					{ID: productA, Name: "Keyboard", Price: 10000, Stock: 5},
					{ID: productB, Name: "Mouse", Price: 5000, Stock: 3},
				}, nil)

			mockOrderRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					assert.Equal(t, entity.OrderStatusPending, order.Status)
					assert.Equal(t, entity.PaymentStatusUnpaid, order.PaymentStatus)
					assert.Equal(t, int64(27000), order.TotalAmount)
					assert.Equal(t, int64(2000), order.ShippingCost)
					require.Len(t, order.Items, 2)
					assert.Equal(t, "Keyboard", order.Items[0].ProductName)
					assert.Equal(t, int64(10000), order.Items[0].UnitPrice)
					require.NotNil(t, order.Payment)
					assert.Equal(t, "bank_transfer", order.Payment.PaymentMethod)
					assert.Equal(t, int64(27000), order.Payment.Amount)
				}).
				Return(nil)

			mockProductRepo.EXPECT().DecrementStock(ctx, productA, 2).Return(nil)
			mockProductRepo.EXPECT().DecrementStock(ctx, productB, 1).Return(nil)
			mockCartRepo.EXPECT().DeleteItemsByCartID(ctx, cart.ID).Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Checkout(ctx, principal, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, principal.UserID, output.Order.UserID)
	assert.Equal(t, int64(27000), output.Order.TotalAmount)
	assert.Equal(t, "regular", output.Order.ShippingMethod)
}

func TestCheckoutService_Checkout_HighShippingCostScenario(t *testing.T) {
	// 2 x A @ 10000 + 1 x B @ 5000 + 12000 freight = 37000; both stocks drain
	// by exactly the purchased quantities (5 -> 3, 1 -> 0).
	txManager := mockRepo.NewMockTransactionManager(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Shipping: &config.ShippingConfig{
			Methods: []config.ShippingMethodConfig{
				{Name: "freight", Cost: 12000},
			},
		},
		Checkout: &config.CheckoutConfig{DefaultPaymentMethod: "bank_transfer"},
	}

	service := NewCheckoutService(CheckoutServiceParams{
		TxManager: txManager,
		Config:    cfg,
		Logger:    logger,
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	productA := uuid.New()
	productB := uuid.New()
	cart := checkoutCartFixture(principal.UserID, productA, productB)

	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "freight",
	}

	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)

			mockProductRepo.EXPECT().
				FindByIDsForUpdate(ctx, []uuid.UUID{productA, productB}).
				Return([]*entity.Product{
					{ID: productA, Name: "Keyboard", Price: 10000, Stock: 5},
					{ID: productB, Name: "Mouse", Price: 5000, Stock: 1},
				}, nil)

			mockOrderRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					assert.Equal(t, int64(37000), order.TotalAmount)
					assert.Equal(t, int64(12000), order.ShippingCost)
				}).
				Return(nil)

			mockProductRepo.EXPECT().DecrementStock(ctx, productA, 2).Return(nil)
			mockProductRepo.EXPECT().DecrementStock(ctx, productB, 1).Return(nil)
			mockCartRepo.EXPECT().DeleteItemsByCartID(ctx, cart.ID).Return(nil)

			return fn(mockFactory)
		})

	output, err := service.Checkout(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, int64(37000), output.Order.TotalAmount)
	assert.Equal(t, "freight", output.Order.ShippingMethod)
}

func TestCheckoutService_Checkout_CartNotFound(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "regular",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindByUserID(ctx, principal.UserID).
				Return(nil, repository.ErrCartNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.Checkout(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}

func TestCheckoutService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "express",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().
				FindByUserID(ctx, principal.UserID).
				Return(&entity.Cart{ID: uuid.New(), UserID: principal.UserID}, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Checkout(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}

func TestCheckoutService_Checkout_InsufficientStock(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	productA := uuid.New()
	productB := uuid.New()
	cart := checkoutCartFixture(principal.UserID, productA, productB)
	cart.Items[1].Quantity = 4 // More than product B has in stock.

	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "regular",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)

			mockProductRepo.EXPECT().
				FindByIDsForUpdate(ctx, []uuid.UUID{productA, productB}).
				Return([]*entity.Product{
					{ID: productA, Name: "Keyboard", Price: 10000, Stock: 5},
					{ID: productB, Name: "Mouse", Price: 5000, Stock: 3},
				}, nil)

			// No order creation, no stock decrement, no cart drain.
			return fn(mockFactory)
		})

	output, err := fx.service.Checkout(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)

	var stockErr *domainerrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, productB, stockErr.ProductID)
	assert.Equal(t, "Mouse", stockErr.ProductName)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)
}

func TestCheckoutService_Checkout_StockConflictRollsBack(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	productA := uuid.New()
	productB := uuid.New()
	cart := checkoutCartFixture(principal.UserID, productA, productB)

	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "regular",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCartRepo := mockRepo.NewMockCartRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)

			mockFactory.EXPECT().CartRepo().Return(mockCartRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)
			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)

			mockCartRepo.EXPECT().FindByUserID(ctx, principal.UserID).Return(cart, nil)

			mockProductRepo.EXPECT().
				FindByIDsForUpdate(ctx, []uuid.UUID{productA, productB}).
				Return([]*entity.Product{
					{ID: productA, Name: "Keyboard", Price: 10000, Stock: 5},
					{ID: productB, Name: "Mouse", Price: 5000, Stock: 3},
				}, nil)

			mockOrderRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

			mockProductRepo.EXPECT().DecrementStock(ctx, productA, 2).Return(nil)
			mockProductRepo.EXPECT().
				DecrementStock(ctx, productB, 1).
				Return(repository.ErrStockConflict)

			// The transaction fails; DeleteItemsByCartID is never reached.
			return fn(mockFactory)
		})

	output, err := fx.service.Checkout(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)

	var stockErr *domainerrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, productB, stockErr.ProductID)
	assert.Equal(t, 0, stockErr.Available)
}

func TestCheckoutService_Checkout_UnknownShippingMethod(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}
	input := &usecase.CheckoutInput{
		ShippingAddress: "Jl. Merdeka No. 1",
		PhoneNumber:     "0812345678",
		ShippingMethod:  "teleport",
	}

	// No transaction runs for an unknown shipping method.
	output, err := fx.service.Checkout(ctx, principal, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrShippingMethodNotFound))
}

func TestCheckoutService_ListShippingMethods(t *testing.T) {
	fx := createTestCheckoutService(t)

	methods := fx.service.ListShippingMethods(context.Background())

	require.Len(t, methods, 2)
	assert.Equal(t, "regular", methods[0].Name)
	assert.Equal(t, int64(2000), methods[0].Cost)
	assert.Equal(t, "express", methods[1].Name)
	assert.Equal(t, int64(5000), methods[1].Cost)
}
