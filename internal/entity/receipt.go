package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Receipt is the immutable proof of purchase written in the same
// transaction as its order. It is never updated and never deleted,
// even after the order is archived.
type Receipt struct {
	bun.BaseModel `bun:"table:receipts"`

	ID      string      `bun:"id,pk"`
	OrderID string      `bun:"order_id,notnull"`
	Items   []OrderItem `bun:"items,type:jsonb"`
	Payment PaymentCard `bun:"payment,type:jsonb"`
	Total   float64     `bun:"total"`
	Date    time.Time   `bun:"date,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
