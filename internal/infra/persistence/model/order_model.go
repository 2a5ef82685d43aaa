package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Monetary columns are minor currency units.
type OrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   string    `gorm:"type:varchar(20);not null"`
	TotalAmount     int64     `gorm:"not null"`
	ShippingAddress string    `gorm:"type:text;not null"`
	PhoneNumber     string    `gorm:"type:varchar(50);not null"`
	ShippingMethod  string    `gorm:"type:varchar(50);not null"`
	ShippingCost    int64     `gorm:"not null"`
	TrackingNumber  *string   `gorm:"type:varchar(100)"`
	Notes           *string   `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items   []*OrderItemModel `gorm:"foreignKey:OrderID"`
	Payment *PaymentModel     `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. ProductName and UnitPrice are
// frozen at checkout so later catalog edits never rewrite order history.
type OrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"type:varchar(255);not null"`
	Quantity    int       `gorm:"not null;check:quantity > 0"`
	UnitPrice   int64     `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PaymentModel mirrors the 'payments' table. One payment record per order.
type PaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID       uuid.UUID `gorm:"type:uuid;unique;not null"`
	PaymentMethod string    `gorm:"type:varchar(50);not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	Amount        int64     `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
