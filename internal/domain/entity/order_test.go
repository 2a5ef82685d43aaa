package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo_AllowedMoves(t *testing.T) {
	allowed := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}

	for _, tt := range allowed {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.True(t, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_CanTransitionTo_TableIsTotal(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusProcessing}: true,
		{OrderStatusPending, OrderStatusCancelled}:  true,
		{OrderStatusProcessing, OrderStatusShipped}: true,
		{OrderStatusShipped, OrderStatusDelivered}:  true,
	}

	// Every pair outside the table must be rejected, including backwards
	// moves, state skips, self-transitions and moves out of terminal states.
	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := allowed[[2]OrderStatus{from, to}]
			assert.Equalf(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrder_CanBeCancelledBy(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name          string
		status        OrderStatus
		paymentStatus PaymentStatus
		caller        uuid.UUID
		want          bool
	}{
		{"owner_pending_unpaid", OrderStatusPending, PaymentStatusUnpaid, owner, true},
		{"owner_pending_paid", OrderStatusPending, PaymentStatusPaid, owner, false},
		{"owner_processing_unpaid", OrderStatusProcessing, PaymentStatusUnpaid, owner, false},
		{"owner_delivered_paid", OrderStatusDelivered, PaymentStatusPaid, owner, false},
		{"stranger_pending_unpaid", OrderStatusPending, PaymentStatusUnpaid, stranger, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{
				UserID:        owner,
				Status:        tt.status,
				PaymentStatus: tt.paymentStatus,
			}
			p := Principal{UserID: tt.caller, Roles: Roles{RoleUser}}
			assert.Equal(t, tt.want, order.CanBeCancelledBy(p))
		})
	}
}

func TestCart_Subtotal(t *testing.T) {
	cart := &Cart{
		Items: []*CartItem{
			{Quantity: 2, Product: &Product{Price: 10000}},
			{Quantity: 1, Product: &Product{Price: 5000}},
		},
	}
	assert.Equal(t, int64(25000), cart.Subtotal())
	assert.False(t, cart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
}
