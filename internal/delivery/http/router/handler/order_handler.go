package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for checkout and order handlers.
type OrderHandler struct {
	checkoutUC usecase.CheckoutUsecase
	orderUC    usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(checkoutUC usecase.CheckoutUsecase, orderUC usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		checkoutUC: checkoutUC,
		orderUC:    orderUC,
	}
}

// Checkout handles the cart-to-order conversion.
func (h *OrderHandler) Checkout(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.CheckoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.checkoutUC.Checkout(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, output, "Order created successfully")
}

// ListShippingMethods handles the public shipping option listing.
func (h *OrderHandler) ListShippingMethods(c echo.Context) error {
	methods := h.checkoutUC.ListShippingMethods(c.Request().Context())

	return response.Success(c, http.StatusOK, methods, "Shipping methods retrieved successfully")
}

// ListOrders handles the order listing. Users see their own orders; admins
// see all orders and may filter by status.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	input := &usecase.ListOrdersInput{
		Page:     intQueryParam(c, "page", 1),
		PageSize: intQueryParam(c, "page_size", 0),
	}

	if raw := c.QueryParam("status"); raw != "" {
		status := entity.OrderStatus(raw)
		input.Status = &status
	}

	output, err := h.orderUC.ListOrders(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Orders retrieved successfully")
}

// GetOrder handles the order detail request.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// CancelOrder handles the user-initiated cancellation of a pending unpaid order.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order cancelled successfully")
}

// UpdateStatus handles an admin-driven fulfillment transition.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var input *usecase.UpdateOrderStatusInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), principal, orderID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}

// ConfirmPayment handles the admin confirmation of an offline payment.
func (h *OrderHandler) ConfirmPayment(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.orderUC.ConfirmPayment(c.Request().Context(), principal, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Payment confirmed")
}

// PaymentQR handles the payment QR code request, returning the PNG directly.
func (h *OrderHandler) PaymentQR(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	png, err := h.orderUC.PaymentQR(c.Request().Context(), principal, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
