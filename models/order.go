package models

import "time"

// OrderStatus represents all possible states of a marketplace order
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusReadyForPickup OrderStatus = "ready_for_pickup" // initial state for non-restaurant businesses
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOnTheWay       OrderStatus = "on_the_way"
	StatusDelivered      OrderStatus = "delivered"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

// PaymentStatus tracks the payment leg of an order
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentMethod is how the customer chose to pay
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodQPay PaymentMethod = "qpay"
	MethodCash PaymentMethod = "cash"
)

// Order is the aggregate root. CustomerID, BusinessID and DriverID are user
// UIDs; DriverID stays empty until a driver claims the order. All amounts are
// minor currency units. CompletedAt is stamped once, when the order first
// reaches delivered, completed or cancelled, and never reverts.
type Order struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	CustomerID      string        `json:"customerId" gorm:"index;not null"`
	BusinessID      string        `json:"businessId" gorm:"index;not null"`
	DriverID        string        `json:"driverId" gorm:"index;default:''"`
	Status          OrderStatus   `json:"status" gorm:"not null;default:'placed'"`
	TotalAmount     int64         `json:"totalAmount" gorm:"not null"`
	DeliveryFee     int64         `json:"deliveryFee"`
	DeliveryAddress string        `json:"deliveryAddress" gorm:"not null"`
	DeliveryNotes   string        `json:"deliveryNotes"`
	RequestedTime   string        `json:"requestedTime"` // "asap" or an explicit time string
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"default:'pending'"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	CompletedAt     *time.Time    `json:"completedAt"`
}

// OrderItem is a line of an order. Price is the unit price snapshotted at
// order time, so historical orders are immune to later product price changes.
// Items are created atomically with their order and are read-only afterwards.
type OrderItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OrderID   uint   `json:"orderId" gorm:"index;not null"`
	ProductID uint   `json:"productId" gorm:"not null"`
	Name      string `json:"name"` // snapshot name
	Quantity  int    `json:"quantity" gorm:"not null"`
	Price     int64  `json:"price" gorm:"not null"`
}

// OrderStatusHistory records every status change of an order.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"orderId" gorm:"index;not null"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy"` // UID of the actor, when known
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// OrderWithItems is the aggregate shape returned by order reads.
type OrderWithItems struct {
	Order
	Items   []OrderItem          `json:"items"`
	History []OrderStatusHistory `json:"history,omitempty"`
}
