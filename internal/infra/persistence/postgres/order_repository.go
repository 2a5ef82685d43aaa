// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Create persists a new order with its items and payment record in one insert
// through GORM's association handling. Run inside the checkout transaction.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user or product reference")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("order quantities must be positive")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	if order.Payment != nil && orderM.Payment != nil {
		order.Payment.ID = orderM.Payment.ID
		order.Payment.CreatedAt = orderM.Payment.CreatedAt
	}

	return nil
}

// FindByID retrieves a single order with its items and payment record.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// List retrieves orders matching the query, newest first, with the total match count.
func (repo *orderRepository) List(ctx context.Context, query repository.OrderListQuery) ([]*entity.Order, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.OrderModel{})

	if query.UserID != nil {
		tx = tx.Where("user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		tx = tx.Where("status = ?", string(*query.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	var orderModels []*model.OrderModel
	if err := tx.
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&orderModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, total, nil
}

// UpdateStatus sets an order's status, and its tracking number when provided.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus, trackingNumber *string) error {
	updates := map[string]any{"status": string(status)}
	if trackingNumber != nil {
		updates["tracking_number"] = *trackingNumber
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// UpdatePaymentStatus sets the order's payment status and keeps the payment
// record in lockstep.
func (repo *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("payment_status", string(status))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order payment status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("order_id = ?", id).
		Update("status", string(status)).Error; err != nil {
		return errors.Wrap(err, "failed to update payment record status")
	}

	return nil
}

// CountDeliveredWithProduct returns how many delivered orders of the user
// contain the given product. Backs the purchased-before-review gate.
func (repo *orderRepository) CountDeliveredWithProduct(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, string(entity.OrderStatusDelivered), productID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count delivered orders with product")
	}

	return count, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toOrderItemDomain(itemM))
	}

	return &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		Status:          entity.OrderStatus(data.Status),
		PaymentStatus:   entity.PaymentStatus(data.PaymentStatus),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		PhoneNumber:     data.PhoneNumber,
		ShippingMethod:  data.ShippingMethod,
		ShippingCost:    data.ShippingCost,
		TrackingNumber:  data.TrackingNumber,
		Notes:           data.Notes,
		Items:           items,
		Payment:         toPaymentDomain(data.Payment),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]*model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, &model.OrderItemModel{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Status:          string(data.Status),
		PaymentStatus:   string(data.PaymentStatus),
		TotalAmount:     data.TotalAmount,
		ShippingAddress: data.ShippingAddress,
		PhoneNumber:     data.PhoneNumber,
		ShippingMethod:  data.ShippingMethod,
		ShippingCost:    data.ShippingCost,
		TrackingNumber:  data.TrackingNumber,
		Notes:           data.Notes,
		Items:           items,
		Payment:         fromPaymentDomain(data.Payment),
	}
}

// toOrderItemDomain converts a GORM OrderItemModel to a domain OrderItem entity.
func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	if data == nil {
		return nil
	}

	return &entity.OrderItem{
		ID:          data.ID,
		OrderID:     data.OrderID,
		ProductID:   data.ProductID,
		ProductName: data.ProductName,
		Quantity:    data.Quantity,
		UnitPrice:   data.UnitPrice,
	}
}

// toPaymentDomain converts a GORM PaymentModel to a domain Payment entity.
func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	if data == nil {
		return nil
	}

	return &entity.Payment{
		ID:            data.ID,
		OrderID:       data.OrderID,
		PaymentMethod: data.PaymentMethod,
		Status:        entity.PaymentStatus(data.Status),
		Amount:        data.Amount,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromPaymentDomain converts a domain Payment entity to a GORM PaymentModel.
func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	if data == nil {
		return nil
	}

	return &model.PaymentModel{
		ID:            data.ID,
		OrderID:       data.OrderID,
		PaymentMethod: data.PaymentMethod,
		Status:        string(data.Status),
		Amount:        data.Amount,
	}
}
