package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// Delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order, priced at checkout time.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Order struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail" gorm:"index"`
	Items           []OrderItem `json:"items" gorm:"serializer:json;not null"`
	ShippingAddress string      `json:"shippingAddress" gorm:"not null"`
	Status          OrderStatus `json:"status" gorm:"index;not null;default:pending"`
	Total           float64     `json:"total"`
	OrderDate       time.Time   `json:"orderDate"`
	DeliveryDate    *time.Time  `json:"deliveryDate,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderQuery filters an order listing; newest orders come first.
type OrderQuery struct {
	Status OrderStatus
	Email  string
	From   *time.Time
	To     *time.Time
}

type OrderEvent struct {
	OrderID   string      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	Total     float64     `json:"total"`
	Email     string      `json:"email,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
