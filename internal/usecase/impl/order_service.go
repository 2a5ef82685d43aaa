package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	qrService service.QRCodeService
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	QRService service.QRCodeService
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		qrService: params.QRService,
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListOrders returns the caller's own orders. Admins may list all orders and
// filter by status.
func (srv *orderService) ListOrders(ctx context.Context, principal entity.Principal, input *usecase.ListOrdersInput) (*usecase.OrderListOutput, error) {
	query := repository.OrderListQuery{
		Limit:  input.PageSize,
		Offset: (input.Page - 1) * input.PageSize,
	}

	if principal.IsAdmin() {
		if input.Status != nil {
			if !input.Status.IsValid() {
				return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order status: " + input.Status.String())
			}
			query.Status = input.Status
		}
	} else {
		userID := principal.UserID
		query.UserID = &userID
	}

	orders, total, err := srv.orderRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.OrderListOutput{
		Orders:   orders,
		Total:    total,
		Page:     input.Page,
		PageSize: input.PageSize,
	}, nil
}

// GetOrder returns a single order. Non-admin callers only see their own
// orders; an order belonging to someone else is reported as not found rather
// than forbidden, so the endpoint does not leak order existence.
func (srv *orderService) GetOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound.WrapMessage("order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !principal.IsAdmin() && order.UserID != principal.UserID {
		return nil, domainerrors.ErrOrderNotFound.WrapMessage("order does not belong to the caller")
	}

	return order, nil
}

// CancelOrder lets the owner cancel an order while it is still pending and
// unpaid. Cancellation does not restock the sold items.
func (srv *orderService) CancelOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	var cancelled *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound.WrapMessage("order not found")
			}

			return errors.Wrap(err, "failed to find order for cancellation")
		}

		if !principal.IsAdmin() && order.UserID != principal.UserID {
			return domainerrors.ErrOrderNotFound.WrapMessage("order does not belong to the caller")
		}

		if !order.CanBeCancelledBy(principal) {
			return &domainerrors.InvalidTransitionError{
				From: order.Status,
				To:   entity.OrderStatusCancelled,
			}
		}

		if err := orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled, nil); err != nil {
			return errors.Wrap(err, "failed to cancel order")
		}

		order.Status = entity.OrderStatusCancelled
		cancelled = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute order cancellation")
	}

	srv.log(ctx).Info("Order cancelled", slog.Any("orderID", orderID), slog.Any("userID", principal.UserID))

	return cancelled, nil
}

// UpdateStatus advances an order along the fulfilment path
// (pending -> processing -> shipped -> delivered). Admin only. Fulfilment
// never starts before payment is confirmed, and shipping requires a tracking
// number.
func (srv *orderService) UpdateStatus(ctx context.Context, principal entity.Principal, orderID uuid.UUID, input *usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !principal.IsAdmin() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins may update order status")
	}

	target := entity.OrderStatus(input.Status)
	if !target.IsValid() || target == entity.OrderStatusCancelled {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid target order status: " + input.Status)
	}

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound.WrapMessage("order not found")
			}

			return errors.Wrap(err, "failed to find order for status update")
		}

		if !order.Status.CanTransitionTo(target) {
			return &domainerrors.InvalidTransitionError{From: order.Status, To: target}
		}

		if order.PaymentStatus != entity.PaymentStatusPaid {
			return domainerrors.ErrOrderNotPaid.WrapMessage("fulfilment requires a confirmed payment")
		}

		var trackingNumber *string
		if target == entity.OrderStatusShipped {
			if input.TrackingNumber == nil || *input.TrackingNumber == "" {
				return domainerrors.ErrTrackingNumberRequired.WrapMessage("shipping an order requires a tracking number")
			}
			trackingNumber = input.TrackingNumber
		}

		if err := orderRepo.UpdateStatus(ctx, order.ID, target, trackingNumber); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}

		order.Status = target
		if trackingNumber != nil {
			order.TrackingNumber = trackingNumber
		}
		updated = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute order status update")
	}

	srv.log(ctx).Info("Order status updated", slog.Any("orderID", orderID), slog.String("status", string(target)))

	return updated, nil
}

// ConfirmPayment marks an order's payment as received. Admin only.
func (srv *orderService) ConfirmPayment(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	if !principal.IsAdmin() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins may confirm payments")
	}

	var confirmed *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound.WrapMessage("order not found")
			}

			return errors.Wrap(err, "failed to find order for payment confirmation")
		}

		if order.Status == entity.OrderStatusCancelled {
			return domainerrors.ErrConflict.WrapMessage("cannot confirm payment on a cancelled order")
		}
		if order.PaymentStatus == entity.PaymentStatusPaid {
			return domainerrors.ErrOrderAlreadyPaid.WrapMessage("payment already confirmed")
		}

		if err := orderRepo.UpdatePaymentStatus(ctx, order.ID, entity.PaymentStatusPaid); err != nil {
			return errors.Wrap(err, "failed to update payment status")
		}

		order.PaymentStatus = entity.PaymentStatusPaid
		if order.Payment != nil {
			order.Payment.Status = entity.PaymentStatusPaid
		}
		confirmed = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute payment confirmation")
	}

	srv.log(ctx).Info("Payment confirmed", slog.Any("orderID", orderID))

	return confirmed, nil
}

// PaymentQR renders a QR code image carrying the order's payment details.
// Only the owner (or an admin) of an unpaid order may request it.
func (srv *orderService) PaymentQR(ctx context.Context, principal entity.Principal, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == entity.PaymentStatusPaid {
		return nil, domainerrors.ErrOrderAlreadyPaid.WrapMessage("order is already paid")
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, domainerrors.ErrConflict.WrapMessage("cannot pay a cancelled order")
	}

	png, err := srv.qrService.GeneratePaymentQR(order.ID, order.TotalAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate payment QR code")
	}

	return png, nil
}
