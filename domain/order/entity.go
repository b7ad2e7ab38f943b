package order

import (
	"time"
)

// Status is the fulfilment state of an order.
type Status string

// Order statuses, in rough fulfilment sequence.
const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid order status.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled}
}

// IsValid reports whether s is a known order status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

// Payment statuses.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "cod"

// Item is a point-in-time snapshot of one ordered line. Later catalog edits
// do not affect it.
type Item struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantID   string  `json:"variant_id"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	Image       string  `json:"image"`
}

// AddressSnapshot freezes the shipping address at order time.
type AddressSnapshot struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is a placed order with item and address snapshots stored as JSON
// documents.
type Order struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          string          `gorm:"index;not null" json:"user_id"`
	Items           []Item          `gorm:"serializer:json" json:"items"`
	ShippingAddress AddressSnapshot `gorm:"serializer:json" json:"shipping_address"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shipping_cost"`
	Total           float64         `json:"total"`
	Status          Status          `gorm:"index" json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Notes           string          `json:"notes"`
	IdempotencyKey  *string         `gorm:"uniqueIndex" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Shipping thresholds: orders at or above the free-shipping floor ship free,
// everything else pays the flat fee.
const (
	FreeShippingFloor = 2000.0
	FlatShippingFee   = 99.0
)

// ShippingCost returns the shipping charge for a given subtotal.
func ShippingCost(subtotal float64) float64 {
	if subtotal >= FreeShippingFloor {
		return 0
	}
	return FlatShippingFee
}
