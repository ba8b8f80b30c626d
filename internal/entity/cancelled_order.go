package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// CancelledOrder is the terminal archival record of an order. CreatedAt
// is copied from the original order; CancelledAt is stamped at the
// moment of cancellation. An order id lives in orders or in
// cancelled_orders, never both.
type CancelledOrder struct {
	bun.BaseModel `bun:"table:cancelled_orders"`

	ID                 string      `bun:"id,pk"`
	OrderID            string      `bun:"order_id,notnull"`
	Items              []OrderItem `bun:"items,type:jsonb"`
	Payment            PaymentCard `bun:"payment,type:jsonb"`
	Total              float64     `bun:"total"`
	CreatedAt          time.Time   `bun:"created_at,nullzero"`
	DeliveryStatus     string      `bun:"delivery_status"`
	CancellationReason string      `bun:"cancellation_reason,notnull"`
	CancelledAt        time.Time   `bun:"cancelled_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
