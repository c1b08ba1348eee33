package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryByCourier DeliveryMethod = "delivery"
	DeliveryPickup    DeliveryMethod = "pickup"
)

// Valid reports whether the delivery method is known.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryByCourier || m == DeliveryPickup
}

type PaymentMethod string

const (
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
	PaymentCash   PaymentMethod = "cash"
)

// Valid reports whether the payment method is known.
func (m PaymentMethod) Valid() bool {
	return m == PaymentUPI || m == PaymentWallet || m == PaymentCash
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderItem is a persisted line item of an order. Product is populated on
// reads so callers can render the line without a second lookup.
type OrderItem struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"orderId"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Order is a durably created order as returned by the order service.
type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Items           []OrderItem     `json:"items"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          OrderStatus     `json:"status"`
	DeliveryMethod  DeliveryMethod  `json:"deliveryMethod"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	PickupLocation  string          `json:"pickupLocation,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderDraftItem crosses the checkout boundary: only the product id and the
// desired quantity, never the cart's product snapshot.
type OrderDraftItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderDraft is the ephemeral submission payload built from a cart plus the
// shopper's delivery and payment choices. It is never persisted on its own;
// on a failed submission the caller keeps it (and the cart) for retry.
type OrderDraft struct {
	CustomerID      string           `json:"customerId"`
	Items           []OrderDraftItem `json:"items"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	DeliveryMethod  DeliveryMethod   `json:"deliveryMethod"`
	DeliveryAddress string           `json:"deliveryAddress,omitempty"`
	PickupLocation  string           `json:"pickupLocation,omitempty"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
}
