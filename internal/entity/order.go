package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Delivery statuses an active order can carry. Delivered only blocks
// cancellation; the update path accepts any member of the set.
const (
	DeliveryPending    = "Pending"
	DeliveryProcessing = "Processing"
	DeliveryShipped    = "Shipped"
	DeliveryDelivered  = "Delivered"
)

// StatusPaid is the coarse lifecycle tag stamped on every checkout.
const StatusPaid = "Paid"

// ValidDeliveryStatus reports whether s is a member of the delivery
// status enumeration.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPending, DeliveryProcessing, DeliveryShipped, DeliveryDelivered:
		return true
	}
	return false
}

// OrderItem is a line-item snapshot taken at checkout time. Catalog
// changes after checkout never reach this copy.
type OrderItem struct {
	ItemRef  string  `json:"itemRef"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PaymentCard is the redacted payment record. The full card number and
// CVV never exist in this shape.
type PaymentCard struct {
	Name             string `json:"name"`
	CardNumberMasked string `json:"cardNumberMasked"`
	Expiry           string `json:"expiry"`
}

// Order represents an active, uncancelled purchase. It is created once
// by checkout, has only its delivery status mutated afterwards, and is
// hard-deleted exactly when archival succeeds.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             string      `bun:"id,pk"`
	Items          []OrderItem `bun:"items,type:jsonb"`
	Payment        PaymentCard `bun:"payment,type:jsonb"`
	Total          float64     `bun:"total"`
	Status         string      `bun:"status"`
	DeliveryStatus string      `bun:"delivery_status"`
	CreatedAt      time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
