package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentCashOnDelivery is the payment method label that blocks self-service cancellation.
const PaymentCashOnDelivery = "Cash on Delivery"

// OrderUser is the slice of the ordering user embedded in an order.
type OrderUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	User            *OrderUser  `json:"user,omitempty"`
	Items           []CartItem  `json:"items"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
	DeliveryCharge  float64     `json:"deliveryCharge"`
	VoucherDiscount *float64    `json:"voucherDiscount,omitempty"`
	VoucherCode     string      `json:"voucherCode,omitempty"`
}

// Contains reports whether any line of the order is for productID.
func (o Order) Contains(productID string) bool {
	for _, item := range o.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}
