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

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the caller's cart. A user who has never added anything gets
// an empty cart rather than a not-found error; the cart row itself is only
// materialized on first AddItem.
func (srv *cartService) GetCart(ctx context.Context, principal entity.Principal) (*usecase.CartOutput, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &usecase.CartOutput{
				Cart:     &entity.Cart{UserID: principal.UserID, Items: []*entity.CartItem{}},
				Subtotal: 0,
			}, nil
		}

		return nil, errors.Wrap(err, "failed to find cart")
	}

	return &usecase.CartOutput{Cart: cart, Subtotal: cart.Subtotal()}, nil
}

// AddItem puts a product into the cart, merging into an existing line when
// the product is already present. The merged quantity must not exceed the
// product's live stock.
func (srv *cartService) AddItem(ctx context.Context, principal entity.Principal, input *usecase.AddCartItemInput) (*usecase.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity.WrapMessage("quantity must be positive")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		cart, err := cartRepo.FindByUserID(ctx, principal.UserID)
		if err != nil {
			if !errors.Is(err, repository.ErrCartNotFound) {
				return errors.Wrap(err, "failed to find cart")
			}

			cart = &entity.Cart{ID: uuid.New(), UserID: principal.UserID}
			if err := cartRepo.CreateCart(ctx, cart); err != nil {
				return errors.Wrap(err, "failed to create cart")
			}
		}

		newQuantity := input.Quantity
		existing, err := cartRepo.FindItem(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			newQuantity += existing.Quantity
		case errors.Is(err, repository.ErrCartItemNotFound):
			existing = nil
		default:
			return errors.Wrap(err, "failed to find cart item")
		}

		if newQuantity > product.Stock {
			return &domainerrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   newQuantity,
				Available:   product.Stock,
			}
		}

		if existing != nil {
			if err := cartRepo.UpdateItemQuantity(ctx, existing.ID, newQuantity); err != nil {
				return errors.Wrap(err, "failed to update cart item quantity")
			}

			return nil
		}

		item := &entity.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  newQuantity,
		}
		if err := cartRepo.CreateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create cart item")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute add-to-cart transaction")
	}

	srv.log(ctx).Info("Cart item added",
		slog.Any("userID", principal.UserID),
		slog.Any("productID", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return srv.GetCart(ctx, principal)
}

// UpdateItemQuantity sets a cart line to an absolute quantity, bounded by the
// product's live stock.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, principal entity.Principal, productID uuid.UUID, input *usecase.UpdateCartItemInput) (*usecase.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity.WrapMessage("quantity must be positive")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		productRepo := repoFactory.ProductRepo()

		cart, err := cartRepo.FindByUserID(ctx, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return domainerrors.ErrCartItemNotFound.WrapMessage("cart item not found")
			}

			return errors.Wrap(err, "failed to find cart")
		}

		item, err := cartRepo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrCartItemNotFound) {
				return domainerrors.ErrCartItemNotFound.WrapMessage("cart item not found")
			}

			return errors.Wrap(err, "failed to find cart item")
		}

		product, err := productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WrapMessage("product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if input.Quantity > product.Stock {
			return &domainerrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   input.Quantity,
				Available:   product.Stock,
			}
		}

		if err := cartRepo.UpdateItemQuantity(ctx, item.ID, input.Quantity); err != nil {
			return errors.Wrap(err, "failed to update cart item quantity")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute cart update transaction")
	}

	return srv.GetCart(ctx, principal)
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, principal entity.Principal, productID uuid.UUID) (*usecase.CartOutput, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return srv.GetCart(ctx, principal)
		}

		return nil, errors.Wrap(err, "failed to find cart")
	}

	if err := srv.cartRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, errors.Wrap(err, "failed to delete cart item")
	}

	srv.log(ctx).Info("Cart item removed", slog.Any("userID", principal.UserID), slog.Any("productID", productID))

	return srv.GetCart(ctx, principal)
}
