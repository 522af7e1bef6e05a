package models

import (
	"time"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusPaymentFailed  OrderStatus = "payment_failed"
)

// PaymentMethod selects how the customer pays for an order
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

// Order represents a customer order. Orders are never deleted; they only move
// through the status machine below.
type Order struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	OrderNumber          string        `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName         string        `gorm:"not null" json:"customer_name"`
	CustomerPhone        string        `gorm:"index;not null" json:"customer_phone"`
	CustomerEmail        *string       `json:"customer_email"`
	DeliveryAddress      string        `gorm:"not null" json:"delivery_address"`
	City                 string        `gorm:"not null" json:"city"`
	Pincode              string        `gorm:"not null" json:"pincode"`
	Landmark             *string       `json:"landmark"`
	Subtotal             float64       `gorm:"not null" json:"subtotal"`
	DeliveryCharge       float64       `gorm:"not null" json:"delivery_charge"`
	TotalAmount          float64       `gorm:"not null" json:"total_amount"`
	Status               OrderStatus   `gorm:"index;not null;default:'pending'" json:"status"`
	PaymentMethod        PaymentMethod `gorm:"not null;default:'cod'" json:"payment_method"`
	PaymentTransactionID *string       `gorm:"uniqueIndex" json:"payment_transaction_id,omitempty"`
	Items                []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product/quantity line within an order. Prices are a
// snapshot taken at purchase time and stay fixed if the catalog changes.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index;not null" json:"order_id"`
	ProductID    uint    `gorm:"not null" json:"product_id"`
	ProductName  string  `gorm:"not null" json:"product_name"`
	Quantity     int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PricePerUnit float64 `gorm:"not null" json:"price_per_unit"`
	TotalPrice   float64 `gorm:"not null" json:"total_price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// allowedTransitions is the guarded order state machine. Delivered, cancelled
// and payment_failed are terminal: nothing transitions out of them.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaymentPending: {OrderStatusPending, OrderStatusPaymentFailed, OrderStatusCancelled},
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
	OrderStatusPaymentFailed:  {},
}

// ParseOrderStatus maps a raw string to an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := allowedTransitions[status]
	return status, ok
}

// IsTerminal reports whether no transition leads out of the status
func (s OrderStatus) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the status machine permits moving from s to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TrackingInfo is the customer-facing progress view of an order
type TrackingInfo struct {
	CurrentStatus      OrderStatus `json:"current_status"`
	CurrentStep        int         `json:"current_step"`
	StatusMessage      string      `json:"status_message"`
	ProgressPercentage int         `json:"progress_percentage"`
	IsDelivered        bool        `json:"is_delivered"`
	IsCancelled        bool        `json:"is_cancelled"`
	CanTrack           bool        `json:"can_track"`
}

type statusProgress struct {
	step       int
	message    string
	percentage int
}

var progressByStatus = map[OrderStatus]statusProgress{
	OrderStatusPending:       {step: 1, message: "Order placed successfully", percentage: 20},
	OrderStatusConfirmed:     {step: 2, message: "Order confirmed, preparing for delivery", percentage: 40},
	OrderStatusProcessing:    {step: 3, message: "Order is being prepared", percentage: 60},
	OrderStatusShipped:       {step: 4, message: "Order shipped, on the way", percentage: 80},
	OrderStatusDelivered:     {step: 5, message: "Order delivered successfully", percentage: 100},
	OrderStatusCancelled:     {step: 0, message: "Order cancelled", percentage: 0},
	OrderStatusPaymentFailed: {step: 0, message: "Payment failed", percentage: 0},
}

// Tracking derives the progress view for the order's current status.
// Statuses without their own progress row (payment_pending) fall back to the
// pending row.
func (o *Order) Tracking() TrackingInfo {
	progress, ok := progressByStatus[o.Status]
	if !ok {
		progress = progressByStatus[OrderStatusPending]
	}
	return TrackingInfo{
		CurrentStatus:      o.Status,
		CurrentStep:        progress.step,
		StatusMessage:      progress.message,
		ProgressPercentage: progress.percentage,
		IsDelivered:        o.Status == OrderStatusDelivered,
		IsCancelled:        o.Status == OrderStatusCancelled,
		CanTrack:           o.Status != OrderStatusCancelled && o.Status != OrderStatusPaymentFailed,
	}
}

// IsActive reports whether the order still needs fulfilment attention
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}
