// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	txManager            repository.TransactionManager
	shippingMethods      []entity.ShippingMethod
	defaultPaymentMethod string
	logger               *slog.Logger
}

// CheckoutServiceParams holds dependencies for checkoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	var methods []entity.ShippingMethod
	if params.Config != nil && params.Config.Shipping != nil {
		for _, m := range params.Config.Shipping.Methods {
			methods = append(methods, entity.ShippingMethod{Name: m.Name, Cost: m.Cost})
		}
	}

	defaultPaymentMethod := "bank_transfer"
	if params.Config != nil && params.Config.Checkout != nil && params.Config.Checkout.DefaultPaymentMethod != "" {
		defaultPaymentMethod = params.Config.Checkout.DefaultPaymentMethod
	}

	return &checkoutService{
		txManager:            params.TxManager,
		shippingMethods:      methods,
		defaultPaymentMethod: defaultPaymentMethod,
		logger:               params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListShippingMethods returns the configured shipping options.
func (srv *checkoutService) ListShippingMethods(_ context.Context) []entity.ShippingMethod {
	return srv.shippingMethods
}

// Checkout converts the caller's cart into an order as one all-or-nothing
// transaction: re-read the cart, lock the product rows, re-validate every
// requested quantity against live stock, freeze unit prices into order items,
// create the order with its initial payment record, decrement stock, and
// drain the cart. Any failure rolls back every write.
func (srv *checkoutService) Checkout(ctx context.Context, principal entity.Principal, input *usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	srv.log(ctx).Info("Starting checkout", slog.Any("userID", principal.UserID), slog.String("shippingMethod", input.ShippingMethod))

	shipping, err := srv.resolveShippingMethod(input.ShippingMethod)
	if err != nil {
		return nil, err
	}

	var createdOrder *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()
		orderRepo := repoFactory.OrderRepo()

		// 1. Re-read the cart; whatever the client displayed is not trusted.
		cart, err := cartRepo.FindByUserID(ctx, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return domainerrors.ErrCartEmpty.WrapMessage("checkout requires a non-empty cart")
			}

			return errors.Wrap(err, "failed to load cart for checkout")
		}
		if cart.IsEmpty() {
			return domainerrors.ErrCartEmpty.WrapMessage("checkout requires a non-empty cart")
		}

		// 2. Lock the product rows so the stock check and the decrement below
		// form one atomic unit against concurrent checkouts.
		productIDs := make([]uuid.UUID, 0, len(cart.Items))
		for _, item := range cart.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		products, err := productRepo.FindByIDsForUpdate(ctx, productIDs)
		if err != nil {
			return errors.Wrap(err, "failed to lock products for checkout")
		}
		productByID := make(map[uuid.UUID]*entity.Product, len(products))
		for _, p := range products {
			productByID[p.ID] = p
		}

		// 3. Re-validate every line and freeze current prices into order items.
		order := &entity.Order{
			ID:              uuid.New(),
			UserID:          principal.UserID,
			Status:          entity.OrderStatusPending,
			PaymentStatus:   entity.PaymentStatusUnpaid,
			ShippingAddress: input.ShippingAddress,
			PhoneNumber:     input.PhoneNumber,
			ShippingMethod:  shipping.Name,
			ShippingCost:    shipping.Cost,
			Notes:           input.Notes,
		}

		var itemsTotal int64
		for _, item := range cart.Items {
			product, ok := productByID[item.ProductID]
			if !ok {
				return domainerrors.ErrProductNotFound.WrapMessage("cart references a product that no longer exists")
			}
			if item.Quantity > product.Stock {
				return &domainerrors.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}

			order.Items = append(order.Items, &entity.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
			itemsTotal += product.Price * int64(item.Quantity)
		}
		order.TotalAmount = itemsTotal + shipping.Cost

		// 4. Open the initial payment record alongside the order.
		order.Payment = &entity.Payment{
			ID:            uuid.New(),
			OrderID:       order.ID,
			PaymentMethod: srv.defaultPaymentMethod,
			Status:        entity.PaymentStatusUnpaid,
			Amount:        order.TotalAmount,
		}

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		// 5. Decrement stock. The guarded update re-checks stock at write time,
		// so even a validation race cannot drive stock below zero.
		for _, item := range order.Items {
			if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return &domainerrors.InsufficientStockError{
						ProductID:   item.ProductID,
						ProductName: item.ProductName,
						Requested:   item.Quantity,
						Available:   0,
					}
				}

				return errors.Wrap(err, "failed to decrement product stock")
			}
		}

		// 6. Drain the cart; the cart row itself survives, empty.
		if err := cartRepo.DeleteItemsByCartID(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart after checkout")
		}

		createdOrder = order

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Checkout failed", slog.Any("userID", principal.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute checkout transaction")
	}

	srv.log(ctx).Info("Checkout completed",
		slog.Any("userID", principal.UserID),
		slog.Any("orderID", createdOrder.ID),
		slog.Int64("totalAmount", createdOrder.TotalAmount),
	)

	return &usecase.CheckoutOutput{Order: createdOrder}, nil
}

func (srv *checkoutService) resolveShippingMethod(name string) (entity.ShippingMethod, error) {
	for _, m := range srv.shippingMethods {
		if m.Name == name {
			return m, nil
		}
	}

	return entity.ShippingMethod{}, domainerrors.ErrShippingMethodNotFound.WrapMessage("unknown shipping method: " + name)
}
