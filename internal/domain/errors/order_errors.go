package errors

import (
	"fmt"
	"net/http"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// InsufficientStockError is returned by checkout when a cart line requests
// more units than the product's live stock. It names the offending product
// so the caller can surface which line blocked the whole order.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// HTTPCode returns the HTTP status code
func (e *InsufficientStockError) HTTPCode() int {
	return http.StatusConflict
}

// ErrorCode returns the business error code
func (e *InsufficientStockError) ErrorCode() string {
	return "INSUFFICIENT_STOCK"
}

// Message returns the user-friendly error message
func (e *InsufficientStockError) Message() string {
	return "商品庫存不足"
}

// Details returns detailed error information
func (e *InsufficientStockError) Details() string {
	return e.Error()
}

// InvalidTransitionError is returned when a requested order status change is
// not in the allowed transition table. It carries both ends of the rejected
// move; the stored status is left untouched.
type InvalidTransitionError struct {
	From entity.OrderStatus
	To   entity.OrderStatus
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %q to %q", e.From, e.To)
}

// HTTPCode returns the HTTP status code
func (e *InvalidTransitionError) HTTPCode() int {
	return http.StatusConflict
}

// ErrorCode returns the business error code
func (e *InvalidTransitionError) ErrorCode() string {
	return "INVALID_TRANSITION"
}

// Message returns the user-friendly error message
func (e *InvalidTransitionError) Message() string {
	return "不允許的訂單狀態轉換"
}

// Details returns detailed error information
func (e *InvalidTransitionError) Details() string {
	return e.Error()
}
